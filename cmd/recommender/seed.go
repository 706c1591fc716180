// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/shopai-recommender/internal/database"
	"github.com/tomtom215/shopai-recommender/internal/logging"
)

func newSeedCmd(a *app) *cobra.Command {
	sc := database.DefaultSeedConfig()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the shop database with synthetic data",
		Long: `Create the DuckDB schema and load generated products, orders and
storefront interactions, for local runs of serve and train.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.New(&a.cfg.Database)
			if err != nil {
				return fmt.Errorf("initialize database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					logging.Error().Err(err).Msg("Error closing database")
				}
			}()

			report, err := db.Seed(cmd.Context(), sc)
			if err != nil {
				return err
			}
			if err := db.Checkpoint(cmd.Context()); err != nil {
				logging.Warn().Err(err).Msg("Checkpoint after seeding failed")
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(report)
		},
	}

	f := cmd.Flags()
	f.IntVar(&sc.Synthetic.Users, "users", sc.Synthetic.Users, "generated users")
	f.IntVar(&sc.Synthetic.Products, "products", sc.Synthetic.Products, "generated products")
	f.IntVar(&sc.Synthetic.Interactions, "interactions", sc.Synthetic.Interactions, "generated interactions")
	f.Int64Var(&sc.Synthetic.Seed, "seed", sc.Synthetic.Seed, "generator seed")
	f.Float64Var(&sc.CancelRate, "cancel-rate", sc.CancelRate, "share of cancelled orders")
	return cmd
}
