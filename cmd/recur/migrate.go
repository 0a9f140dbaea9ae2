package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/the-spice-must-recur/internal/cli"
	"github.com/Veraticus/the-spice-must-recur/internal/config"
	"github.com/Veraticus/the-spice-must-recur/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Works against the SQLite file or PostgreSQL server named by database.path.`,
		Args: cobra.NoArgs,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	status, _ := cmd.Flags().GetBool("status")

	dsn := config.DatabaseDSN(viper.GetViper())
	store, err := storage.NewStorage(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	out := cmd.OutOrStdout()
	if status {
		current, err := store.SchemaVersion(ctx)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		_, err = fmt.Fprintf(out, "%s\nDriver:  %s\nCurrent: %d\nLatest:  %d\n",
			cli.FormatTitle("Database migration status"),
			store.Driver(),
			current,
			storage.ExpectedSchemaVersion)
		return err
	}

	slog.Info("Running database migrations", "driver", store.Driver())
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	_, err = fmt.Fprintln(out, cli.FormatSuccess("Database migrations completed successfully!"))
	return err
}
