package main

import (
	"fmt"
	"io"

	"github.com/fadedpez/affectlab/pkg/entities"
	"github.com/fadedpez/affectlab/pkg/roller"
	"github.com/spf13/cobra"
)

var (
	rollTemplate string
	rollReroll   bool
	rollSimulate int
)

var rollCmd = &cobra.Command{
	Use:   "roll INPUT",
	Short: "Roll a card locally without touching any wallet",
	Long: `Roll a card for INPUT against a catalog template. Nothing is charged or
stored. With --simulate N the roll is repeated N times and the rarity
distribution is printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tpl, err := catalog().Find(cmd.Context(), rollTemplate)
		if err != nil {
			return err
		}

		r := roller.New(nil)
		roll := r.Roll
		if rollReroll {
			roll = r.Reroll
		}

		if rollSimulate > 0 {
			return simulate(cmd.OutOrStdout(), rollSimulate, func() (*roller.Result, error) {
				return roll(args[0], tpl.ID, tpl.PresetTexts, tpl.IsCustom())
			})
		}

		res, err := roll(args[0], tpl.ID, tpl.PresetTexts, tpl.IsCustom())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "[%s] %s\n", res.Rarity, tpl.Title)
		fmt.Fprintf(out, "%s\n", res.Text)
		fmt.Fprintf(out, "Luck %d · filter %d°\n", res.LuckScore, res.FilterSeed)
		if asset := tpl.Assets[res.Rarity]; asset != "" {
			fmt.Fprintln(out, asset)
		}
		return nil
	},
}

// simulate rolls n times and prints the share of each rarity and its mean luck
func simulate(out io.Writer, n int, roll func() (*roller.Result, error)) error {
	counts := make(map[entities.Rarity]int, len(entities.Rarities))
	luck := make(map[entities.Rarity]int, len(entities.Rarities))
	for i := 0; i < n; i++ {
		res, err := roll()
		if err != nil {
			return err
		}
		counts[res.Rarity]++
		luck[res.Rarity] += res.LuckScore
	}

	fmt.Fprintf(out, "%d rolls\n", n)
	for i := len(entities.Rarities) - 1; i >= 0; i-- {
		rarity := entities.Rarities[i]
		c := counts[rarity]
		mean := 0.0
		if c > 0 {
			mean = float64(luck[rarity]) / float64(c)
		}
		fmt.Fprintf(out, "%-3s %7d  %5.1f%%  luck %5.1f\n", rarity, c, float64(c)*100/float64(n), mean)
	}
	return nil
}

func init() {
	rollCmd.Flags().StringVarP(&rollTemplate, "template", "t", "energy-daily", "Template ID")
	rollCmd.Flags().BoolVar(&rollReroll, "reroll", false, "Use the boosted reroll table")
	rollCmd.Flags().IntVar(&rollSimulate, "simulate", 0, "Roll N times and print the distribution")
}
