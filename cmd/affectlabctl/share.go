package main

import (
	"fmt"
	"strings"

	"github.com/fadedpez/affectlab/pkg/services/share"
	"github.com/spf13/cobra"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Work with card share links",
}

var shareOpenCmd = &cobra.Command{
	Use:   "open LINK",
	Short: "Decode a share link into the card it displays",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]
		if idx := strings.Index(query, "?"); idx >= 0 {
			query = query[idx+1:]
		}

		result, err := share.NewService(catalog()).Decode(cmd.Context(), query)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, share.Title(result))
		fmt.Fprintf(out, "Template: %s\n", result.TemplateID)
		fmt.Fprintf(out, "Text:     %s\n", result.Text)
		fmt.Fprintf(out, "Image:    %s\n", result.ImageURL)
		return nil
	},
}

func init() {
	shareCmd.AddCommand(shareOpenCmd)
}
