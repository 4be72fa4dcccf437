package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fadedpez/affectlab/internal/config"
	"github.com/fadedpez/affectlab/pkg/db/migrations"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
)

var (
	migrateDB  string
	migrateDir string
	newDir     string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQLite migrations",
	Long: `Apply pending migrations to the SQLite store.

Uses the schema compiled into the binary unless --dir points at a directory
of NNN_description.sql files.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := migrateDB
		if dbPath == "" {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			dbPath = cfg.SQLitePath()
		}

		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
		db, err := sql.Open("sqlite3", dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		migrator := migrations.NewEmbeddedMigrator(db)
		if migrateDir != "" {
			migrator = migrations.NewMigrator(db, migrateDir)
		}

		applied, err := migrator.WithLogger(newLogger()).MigrateUp(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) to %s\n", applied, dbPath)
		return nil
	},
}

var createMigrationCmd = &cobra.Command{
	Use:   "create-migration DESCRIPTION",
	Short: "Create an empty numbered migration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := migrations.NewMigrator(nil, newDir).CreateMigration(args[0])
		if err != nil {
			return fmt.Errorf("creating migration: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created migration file: %s\n", path)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDB, "db", "", "SQLite database path (default: DATA_DIR/affectlab.db)")
	migrateCmd.Flags().StringVar(&migrateDir, "dir", "", "Migrations directory (default: embedded schema)")
	createMigrationCmd.Flags().StringVar(&newDir, "dir", "pkg/db/migrations/sql", "Migrations directory")
}
