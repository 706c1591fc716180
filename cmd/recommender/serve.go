// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/shopai-recommender/internal/api"
	"github.com/tomtom215/shopai-recommender/internal/auth"
	"github.com/tomtom215/shopai-recommender/internal/cache"
	"github.com/tomtom215/shopai-recommender/internal/database"
	"github.com/tomtom215/shopai-recommender/internal/events"
	"github.com/tomtom215/shopai-recommender/internal/logging"
	"github.com/tomtom215/shopai-recommender/internal/recommend"
	"github.com/tomtom215/shopai-recommender/internal/supervisor"
	"github.com/tomtom215/shopai-recommender/internal/supervisor/services"
)

const httpShutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the recommendation API",
		Long: `Start the HTTP API under the supervisor tree.

The saved artifact is loaded at startup. Without one, user requests are
answered from database popularity until a model is trained. Training runs
on the configured schedule and through POST /api/recommendations/train;
model events from other instances trigger a reload.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

//nolint:gocyclo // sequential setup steps
func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	logging.Info().
		Str("version", Version).
		Str("addr", cfg.Server.Addr()).
		Str("db_path", cfg.Database.Path).
		Str("model_store", cfg.Model.Store).
		Str("events_backend", cfg.Events.Backend).
		Str("auth_mode", cfg.Security.AuthMode).
		Msg("Starting ShopAI recommender with supervisor tree")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	store, err := a.openStore("")
	if err != nil {
		return fmt.Errorf("open model store: %w", err)
	}
	defer closeStore(store)

	engine, err := recommend.NewEngine(cfg.EngineConfig(), logging.WithComponent("recommend"))
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	if _, err := engine.Reload(ctx, store); err != nil {
		if errors.Is(err, recommend.ErrArtifactNotFound) {
			logging.Warn().Str("location", store.Location()).Msg("No model artifact yet, serving database popularity until trained")
		} else {
			logging.Error().Err(err).Msg("Model artifact unusable, serving database popularity until retrained")
		}
	}

	bus, err := events.New(cfg.Events, logging.NewSlogLogger())
	if err != nil {
		return fmt.Errorf("create event bus: %w", err)
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	authMw, err := newAuthMiddleware(a)
	if err != nil {
		return err
	}

	trainSvc := services.NewTrainService(engine, database.NewProvider(db), store, bus,
		services.TrainServiceConfig{
			OnStartup: cfg.Training.OnStartup,
			Interval:  cfg.Training.Interval,
			Timeout:   cfg.Training.Timeout,
		},
		logging.WithComponent("train"),
	)
	reloadSvc := services.NewReloadService(engine, store, bus, logging.WithComponent("reload"))

	handler, err := api.NewHandler(api.HandlerDeps{
		Engine:  engine,
		Store:   store,
		Shop:    db,
		Trainer: trainSvc,
		Cache:   cache.New(cfg.Recommend.CacheSize, cfg.Recommend.CacheTTL),
		Config:  cfg,
		Version: Version,
	})
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}
	chiMw := api.NewChiMiddleware(api.ChiMiddlewareConfigFromServer(&cfg.Server))
	router := api.NewRouter(handler, chiMw, authMw)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * time.Minute,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	tree.AddDataService(trainSvc)
	tree.AddMessagingService(reloadSvc)
	tree.AddAPIService(services.NewHTTPServerService(srv, httpShutdownTimeout))

	logging.Info().Str("addr", srv.Addr).Msg("Supervisor tree starting")
	err = tree.Serve(ctx)

	if unstopped, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop before timeout")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	logging.Info().Msg("Shutdown complete")
	return nil
}

// newAuthMiddleware builds the admin guard for refresh and train.
func newAuthMiddleware(a *app) (*auth.Middleware, error) {
	mode := a.cfg.Security.AuthMode
	if mode != auth.AuthModeJWT {
		logging.Warn().Str("auth_mode", mode).Msg("Admin endpoints are not authenticated")
		return auth.NewMiddleware(nil, mode), nil
	}
	mgr, err := auth.NewJWTManager(&a.cfg.Security)
	if err != nil {
		return nil, fmt.Errorf("initialize JWT: %w", err)
	}
	return auth.NewMiddleware(mgr, mode), nil
}
