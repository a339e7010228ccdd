package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Simplici0/costeo/internal/config"
	"github.com/Simplici0/costeo/internal/db"
	"github.com/Simplici0/costeo/internal/migrations"
	"github.com/Simplici0/costeo/internal/store"
)

// app is the state shared by every subcommand once the database is open.
type app struct {
	cfg   config.Config
	db    *sql.DB
	store *store.Store
}

func newRootCmd(cfg config.Config) *cobra.Command {
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:   "costctl",
		Short: "Costing and sales analytics from the command line",
		Long: `costctl works directly on the costing database used by the server.

It imports and exports the ingredient price list, prints product margins
per sales channel and aggregates sold tickets into period reports.

The database path defaults to DB_PATH and can be overridden with --db.
Pending migrations are applied before any command runs.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite database")

	root.AddCommand(
		newMigrateCmd(a),
		newSeedCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newRestoreCmd(a),
		newStatsCmd(a),
		newReportCmd(a),
	)
	return root
}

func (a *app) open(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	database, err := db.OpenContext(ctx, a.cfg.DBPath)
	if err != nil {
		return err
	}
	if _, err := migrations.Up(ctx, database); err != nil {
		database.Close()
		return err
	}
	a.db = database
	a.store = store.New(database)
	return nil
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	a.db = nil
	return nil
}
