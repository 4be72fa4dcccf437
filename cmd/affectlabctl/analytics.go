package main

import (
	"fmt"

	"github.com/fadedpez/affectlab/internal/config"
	"github.com/fadedpez/affectlab/pkg/entities"
	"github.com/fadedpez/affectlab/pkg/repositories/cards"
	"github.com/fadedpez/affectlab/pkg/services/statistics"
	"github.com/spf13/cobra"
)

var analyticsTemplate string

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Maintain the Elasticsearch card index",
	Long: `Maintain the monthly card indices in Elasticsearch.

Requires ELASTICSEARCH_URL (and optionally ELASTICSEARCH_USERNAME,
ELASTICSEARCH_PASSWORD, ELASTICSEARCH_INDEX_PREFIX).`,
}

var analyticsRotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Create this month's index and point the alias at it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openAnalytics(cmd)
		if err != nil {
			return err
		}
		defer repo.Close()

		if err := repo.RotateIndex(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Alias %s rotated\n", repo.Alias())
		return nil
	},
}

var analyticsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete indices past the retention window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openAnalytics(cmd)
		if err != nil {
			return err
		}
		defer repo.Close()

		if err := repo.PruneIndices(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Expired indices pruned")
		return nil
	},
}

var analyticsDistributionCmd = &cobra.Command{
	Use:   "distribution",
	Short: "Print the global rarity distribution",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openAnalytics(cmd)
		if err != nil {
			return err
		}
		defer repo.Close()

		dist, err := statistics.NewService(nil, repo).GlobalDistribution(cmd.Context(), analyticsTemplate)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d cards\n", dist.Total)
		for i := len(entities.Rarities) - 1; i >= 0; i-- {
			r := entities.Rarities[i]
			fmt.Fprintf(out, "%-3s %7d  %5.1f%%\n", r, dist.Counts[r], dist.Share(r))
		}
		return nil
	},
}

func openAnalytics(cmd *cobra.Command) (*cards.ElasticsearchRepository, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if cfg.ElasticsearchURL == "" {
		return nil, fmt.Errorf("ELASTICSEARCH_URL is not set")
	}

	esConfig := cards.DefaultElasticsearchConfig()
	esConfig.URL = cfg.ElasticsearchURL
	esConfig.Username = cfg.ElasticsearchUsername
	esConfig.Password = cfg.ElasticsearchPassword
	esConfig.IndexPrefix = cfg.ElasticsearchPrefix
	return cards.NewElasticsearchRepository(cmd.Context(), esConfig, newLogger())
}

func init() {
	analyticsDistributionCmd.Flags().StringVarP(&analyticsTemplate, "template", "t", "", "Only this template")

	analyticsCmd.AddCommand(analyticsRotateCmd)
	analyticsCmd.AddCommand(analyticsPruneCmd)
	analyticsCmd.AddCommand(analyticsDistributionCmd)
}
