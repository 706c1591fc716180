// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/shopai-recommender/internal/config"
	"github.com/tomtom215/shopai-recommender/internal/logging"
	"github.com/tomtom215/shopai-recommender/internal/recommend/storage"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

// app carries state shared by every subcommand.
type app struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "recommender",
		Short: "ShopAI hybrid product recommendation service",
		Long: `ShopAI recommender trains a matrix factorization model over shop
interactions and serves personalized, similar-product and popular
recommendations over HTTP.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to the YAML config file (overrides "+config.ConfigPathEnvVar+")")

	root.AddCommand(
		newServeCmd(a),
		newTrainCmd(a),
		newStatsCmd(a),
		newTokenCmd(a),
		newSeedCmd(a),
	)
	return root
}

// loadConfig loads and validates configuration, then initializes logging.
func (a *app) loadConfig() error {
	if a.configPath != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, a.configPath); err != nil {
			return fmt.Errorf("set %s: %w", config.ConfigPathEnvVar, err)
		}
	}
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return err
	}
	a.cfg = cfg
	logging.Init(cfg.LoggingOptions())
	return nil
}

// openStore opens the configured artifact store. A non-empty override
// forces a file store at that path.
func (a *app) openStore(override string) (storage.Store, error) {
	if override != "" {
		return storage.New(storage.Options{Backend: storage.BackendFile, Path: override})
	}
	opts := storage.Options{Backend: a.cfg.Model.Store, Path: a.cfg.Model.Path}
	if opts.Backend == storage.BackendBadger {
		opts.Path = a.cfg.Model.BadgerPath
	}
	return storage.New(opts)
}

func closeStore(s storage.Store) {
	if err := s.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing model store")
	}
}
