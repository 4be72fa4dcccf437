package main

import (
	"fmt"
	"os"

	"github.com/fadedpez/affectlab/pkg/repositories/template"
	"github.com/spf13/cobra"
)

var templateQuery template.Query

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Browse and validate template catalogs",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		templates, err := catalog().Filter(cmd.Context(), templateQuery)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(templates) == 0 {
			fmt.Fprintln(out, "No templates match")
			return nil
		}
		for _, t := range templates {
			fmt.Fprintf(out, "%-16s %-8s %d  %s", t.ID, t.Category, t.Cost, t.Title)
			if t.Tag != "" {
				fmt.Fprintf(out, " [%s]", t.Tag)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

var templatesValidateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check that a catalog file parses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		templates, err := template.ParseCatalog(data, globalFlags.AssetBase)
		if err != nil {
			return err
		}

		var warnings []string
		for _, t := range templates {
			if len(t.PresetTexts) == 0 && !t.IsCustom() {
				warnings = append(warnings, fmt.Sprintf("%s has no preset texts", t.ID))
			}
		}

		out := cmd.OutOrStdout()
		for _, w := range warnings {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
		fmt.Fprintf(out, "%s: %d templates OK\n", args[0], len(templates))
		return nil
	},
}

func init() {
	templatesListCmd.Flags().StringVarP(&templateQuery.Category, "category", "c", "", "Only this category")
	templatesListCmd.Flags().StringVar(&templateQuery.Tag, "tag", "", "Only this tag")
	templatesListCmd.Flags().StringVarP(&templateQuery.Search, "search", "s", "", "Search id, title, description and keywords")
	templatesListCmd.Flags().IntVar(&templateQuery.Limit, "limit", 0, "Maximum templates to list (0 for all)")
	templatesListCmd.Flags().IntVar(&templateQuery.Offset, "offset", 0, "Templates to skip")

	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesValidateCmd)
}
