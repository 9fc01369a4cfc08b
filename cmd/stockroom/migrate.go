package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/stockroom/internal/cli"
	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/config"
	"github.com/Veraticus/stockroom/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Move the text inventory into SQLite",
		Long: `Initialize or update the SQLite schema, then copy the text inventory
and transaction log into the database.

Afterwards run with --backend sqlite (or storage.backend: sqlite in the config
file) to use the database.`,
		Args: cobra.NoArgs,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("schema-only", false, "Apply schema migrations without copying data")
	cmd.Flags().Bool("status", false, "Show current schema version without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	schemaOnly, _ := cmd.Flags().GetBool("schema-only")
	status, _ := cmd.Flags().GetBool("status")
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.Info("Starting database migration",
		"database", cfg.DatabasePath,
		"source", cfg.DataPath,
		"schema_only", schemaOnly,
		"status_only", status)

	db, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if status {
		version, err := db.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Database: %s\nCurrent version: %d\nLatest version: %d\n",
			cfg.DatabasePath, version, storage.ExpectedSchemaVersion)
		return nil
	}

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	fmt.Fprintln(out, cli.FormatSuccess("Database schema is up to date"))

	if schemaOnly {
		return nil
	}

	text, err := storage.NewTextStorage(cfg.DataPath, cfg.TransactionsPath)
	if err != nil {
		return err
	}

	categories, err := text.LoadInventory(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrMalformedInput) {
			return common.NewUserError("Error loading data.", err)
		}
		for _, msg := range lineErrors(err) {
			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("skipped "+msg))
		}
	}

	transactions, err := text.LoadTransactions(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrMalformedTransaction) {
			return fmt.Errorf("failed to read transaction log: %w", err)
		}
		for _, msg := range lineErrors(err) {
			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("skipped "+msg))
		}
	}

	if err := db.SaveInventory(ctx, categories); err != nil {
		return fmt.Errorf("failed to copy inventory: %w", err)
	}
	if err := db.SaveTransactions(ctx, transactions); err != nil {
		return fmt.Errorf("failed to copy transaction log: %w", err)
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Copied %d categories and %d transactions into %s",
		len(categories), len(transactions), cfg.DatabasePath)))
	return nil
}
