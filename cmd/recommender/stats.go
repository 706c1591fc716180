// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

func newStatsCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		path   string
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the stats of the saved model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore(path)
			if err != nil {
				return fmt.Errorf("open model store: %w", err)
			}
			defer closeStore(store)

			m, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}
			return printStats(cmd.OutOrStdout(), m.Stats(), store.Location(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.Flags().StringVar(&path, "path", "", "read this artifact file instead of the configured store")
	return cmd
}

//nolint:gocritic // Stats is a small value type
func printStats(out io.Writer, s recommend.Stats, location string, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "location\t%s\n", location)
	fmt.Fprintf(tw, "version\t%d\n", s.Version)
	fmt.Fprintf(tw, "trained_at\t%s\n", s.TrainedAt.Format(time.RFC3339))
	fmt.Fprintf(tw, "users\t%d\n", s.Users)
	fmt.Fprintf(tw, "products\t%d\n", s.Items)
	fmt.Fprintf(tw, "factors\t%d\n", s.Factors)
	fmt.Fprintf(tw, "latent_dim\t%d\n", s.LatentDim)
	fmt.Fprintf(tw, "content_features\t%t\n", s.HasContent)
	fmt.Fprintf(tw, "popularity_scores\t%t\n", s.HasPopularity)
	return tw.Flush()
}
