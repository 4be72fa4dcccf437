package main

import (
	"fmt"
	"os"

	"github.com/fadedpez/affectlab/internal/app"
	"github.com/fadedpez/affectlab/internal/config"
	"github.com/fadedpez/affectlab/internal/logging"
	"github.com/fadedpez/affectlab/pkg/repositories/template"
	"github.com/spf13/cobra"
)

// GlobalFlags are shared by every subcommand
type GlobalFlags struct {
	LogLevel  string
	Catalog   string // template catalog file, builtin when empty
	AssetBase string
}

var globalFlags GlobalFlags

var rootCmd = &cobra.Command{
	Use:   "affectlabctl",
	Short: "Admin tool for the affectlab card bot",
	Long: `affectlabctl inspects and repairs affectlab data.

Wallet and history commands read the same .env / environment settings as the
bot (STORAGE_TYPE, DATA_DIR, REDIS_ADDR, ...). Catalog and roll commands only
need a template catalog.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.LogLevel, "log-level", "warn", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&globalFlags.Catalog, "catalog", os.Getenv("TEMPLATES_PATH"), "Template catalog YAML (default: builtin)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.AssetBase, "asset-base", os.Getenv("ASSET_BASE_URL"), "Prefix for relative asset paths")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createMigrationCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(rollCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(analyticsCmd)
}

func newLogger() *logging.Logger {
	return logging.New(logging.ParseLevel(globalFlags.LogLevel), false)
}

// openApp loads configuration and wires the services over the configured store
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if cmd.Flags().Changed("catalog") {
		cfg.TemplatesPath = globalFlags.Catalog
	}
	if cmd.Flags().Changed("asset-base") {
		cfg.AssetBaseURL = globalFlags.AssetBase
	}
	return app.New(cmd.Context(), cfg, newLogger(), nil)
}

// catalog builds an uncached template repository from the global flags
func catalog() *template.CachedRepository {
	return template.NewCachedRepository(
		template.NewLoader(globalFlags.Catalog, globalFlags.AssetBase), 0, newLogger())
}
