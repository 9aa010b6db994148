package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Simplici0/estatecalc/internal/db"
	"github.com/Simplici0/estatecalc/internal/migrations"
	"github.com/Simplici0/estatecalc/internal/seed"
	"github.com/Simplici0/estatecalc/internal/store"
)

func (c *cli) newMigrateCmd() *cobra.Command {
	var withSeed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}

			database, err := db.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := migrations.Up(database.DB); err != nil {
				return err
			}
			version, err := migrations.Version(database.DB)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s at schema version %d\n", cfg.DBPath, version)

			if !withSeed {
				return nil
			}
			stats, err := seed.Run(cmd.Context(), store.New(database))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded scenarios: %d inserted, %d updated\n", stats.Inserts, stats.Updates)
			return nil
		},
	}

	cmd.Flags().BoolVar(&withSeed, "seed", false, "Also store the bundled sample scenarios")
	return cmd
}
