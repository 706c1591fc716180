// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/shopai-recommender/internal/database"
	"github.com/tomtom215/shopai-recommender/internal/events"
	"github.com/tomtom215/shopai-recommender/internal/logging"
	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

const sampleRecommendations = 5

type trainOptions struct {
	synthetic  bool
	evaluate   bool
	publish    bool
	factors    int
	iterations int
	output     string
	syn        recommend.SyntheticConfig
}

// trainResult is printed as JSON when training finishes.
type trainResult struct {
	Report     recommend.TrainReport      `json:"report"`
	Stats      recommend.Stats            `json:"stats"`
	Location   string                     `json:"location"`
	Evaluation *recommend.Evaluation      `json:"evaluation,omitempty"`
	Sample     []recommend.Recommendation `json:"sample,omitempty"`
	SampleUser *recommend.ID              `json:"sample_user,omitempty"`
}

func newTrainCmd(a *app) *cobra.Command {
	opts := trainOptions{syn: recommend.DefaultSyntheticConfig()}

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a model and save the artifact",
		Long: `Train a model from the shop database, or from generated data with
--synthetic, and save it to the configured model store.

With --evaluate the interactions are split by time, the model is trained
on the first 80% and precision@10 and recall@10 are measured on the rest.

Examples:
  recommender train
  recommender train --synthetic --evaluate
  recommender train --factors 32 --iterations 15 --output models/candidate.bin
  recommender train --publish          # tell running instances to reload`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("factors") {
				a.cfg.Model.Factors = opts.factors
			}
			if cmd.Flags().Changed("iterations") {
				a.cfg.Model.Iterations = opts.iterations
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.train(ctx, cmd.OutOrStdout(), &opts)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.synthetic, "synthetic", false, "train on generated data instead of the database")
	f.BoolVar(&opts.evaluate, "evaluate", false, "hold out the latest 20% and report precision/recall@10")
	f.BoolVar(&opts.publish, "publish", false, "announce the saved model on the event bus")
	f.IntVar(&opts.factors, "factors", 64, "number of latent factors")
	f.IntVar(&opts.iterations, "iterations", 30, "number of solver iterations")
	f.StringVar(&opts.output, "output", "", "write the artifact to this file instead of the configured store")
	f.IntVar(&opts.syn.Users, "synthetic-users", opts.syn.Users, "generated users")
	f.IntVar(&opts.syn.Products, "synthetic-products", opts.syn.Products, "generated products")
	f.IntVar(&opts.syn.Interactions, "synthetic-interactions", opts.syn.Interactions, "generated interactions")
	f.Int64Var(&opts.syn.Seed, "synthetic-seed", opts.syn.Seed, "generator seed")
	return cmd
}

func (a *app) train(ctx context.Context, out io.Writer, opts *trainOptions) error {
	provider, cleanup, err := a.trainingData(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	engine, err := recommend.NewEngine(a.cfg.EngineConfig(), logging.WithComponent("train"))
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	var test []recommend.Interaction
	if opts.evaluate {
		var split recommend.DataProvider
		split, test, err = holdOut(ctx, provider)
		if err != nil {
			return err
		}
		provider = split
	}

	model, report, err := engine.TrainModel(ctx, provider)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	result := trainResult{Report: report, Stats: model.Stats()}
	if opts.evaluate {
		ev := recommend.Evaluate(model, test, recommend.DefaultEvalK, recommend.DefaultEvalMaxUsers)
		result.Evaluation = &ev
		logging.Info().
			Float64("precision_at_k", ev.Precision).
			Float64("recall_at_k", ev.Recall).
			Int("users_evaluated", ev.UsersEvaluated).
			Msg("Evaluation complete")
	}

	store, err := a.openStore(opts.output)
	if err != nil {
		return fmt.Errorf("open model store: %w", err)
	}
	defer closeStore(store)
	if err := engine.SaveModel(ctx, store, model); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	result.Location = store.Location()

	if user, ok := sampleUser(ctx, provider); ok {
		recs, err := engine.RecommendForUserWith(model, user, sampleRecommendations, true)
		if err == nil {
			result.SampleUser = &user
			result.Sample = recs
		}
	}

	if opts.publish {
		if err := a.publishModel(ctx, model.Stats(), store.Location()); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// trainingData returns the synthetic generator or the database provider.
func (a *app) trainingData(opts *trainOptions) (recommend.DataProvider, func(), error) {
	if opts.synthetic {
		syn, err := recommend.GenerateSynthetic(opts.syn)
		if err != nil {
			return nil, nil, fmt.Errorf("generate synthetic data: %w", err)
		}
		logging.Info().
			Int("users", opts.syn.Users).
			Int("products", opts.syn.Products).
			Int("interactions", len(syn.Interactions())).
			Msg("Generated synthetic training data")
		return syn, func() {}, nil
	}

	db, err := database.New(&a.cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize database: %w", err)
	}
	cleanup := func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}
	return database.NewProvider(db), cleanup, nil
}

// staticData serves a fixed training set.
type staticData struct {
	interactions []recommend.Interaction
	items        []recommend.Item
}

func (d staticData) GetInteractions(context.Context) ([]recommend.Interaction, error) {
	return d.interactions, nil
}

func (d staticData) GetItems(context.Context) ([]recommend.Item, error) {
	return d.items, nil
}

// holdOut splits provider's interactions by time into a training provider
// and a held-out test set.
func holdOut(ctx context.Context, provider recommend.DataProvider) (recommend.DataProvider, []recommend.Interaction, error) {
	interactions, err := provider.GetInteractions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load interactions: %w", err)
	}
	items, err := provider.GetItems(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load products: %w", err)
	}
	train, test := recommend.SplitByTime(interactions, recommend.DefaultTrainFraction)
	logging.Info().Int("train", len(train)).Int("test", len(test)).Msg("Train/test split")
	return staticData{interactions: train, items: items}, test, nil
}

// sampleUser returns the first user in the training data.
func sampleUser(ctx context.Context, provider recommend.DataProvider) (recommend.ID, bool) {
	interactions, err := provider.GetInteractions(ctx)
	if err != nil || len(interactions) == 0 {
		return recommend.ID{}, false
	}
	return interactions[0].UserID, true
}

//nolint:gocritic // Stats is a small value type
func (a *app) publishModel(ctx context.Context, stats recommend.Stats, location string) error {
	bus, err := events.New(a.cfg.Events, logging.NewSlogLogger())
	if err != nil {
		return fmt.Errorf("create event bus: %w", err)
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	ev := events.NewModelPublished(stats, location)
	if err := bus.PublishModel(ctx, ev); err != nil {
		return fmt.Errorf("publish model event: %w", err)
	}
	logging.Info().Str("model_id", ev.ModelID).Int64("version", ev.Version).Str("topic", bus.Topic()).Msg("Model event published")
	return nil
}
