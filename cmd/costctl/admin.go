package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Simplici0/costeo/internal/logger"
	"github.com/Simplici0/costeo/internal/migrations"
	"github.com/Simplici0/costeo/internal/seed"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations and print the schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := migrations.Version(cmd.Context(), a.db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
			return nil
		},
	}
}

func newSeedCmd(a *app) *cobra.Command {
	var ingredients bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert default settings and the base ingredient list",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := seed.Run(cmd.Context(), a.db, seed.Config{Ingredients: ingredients})
			if err != nil {
				return err
			}
			l := logger.WithComponent("seed")
			l.Info().Int("inserts", st.Inserts).Msg("seed complete")
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows inserted\n", st.Inserts)
			return nil
		},
	}
	cmd.Flags().BoolVar(&ingredients, "ingredients", a.cfg.SeedIngredients, "Also insert the base ingredients")
	return cmd
}
