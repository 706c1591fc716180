// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shopai-recommender/internal/events"
	"github.com/tomtom215/shopai-recommender/internal/logging"
	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

const defaultTrainTimeout = 30 * time.Minute

// ModelPublisher announces a saved model to other instances.
type ModelPublisher interface {
	PublishModel(ctx context.Context, ev events.ModelPublished) error
}

// TrainServiceConfig holds the training schedule.
type TrainServiceConfig struct {
	// OnStartup trains once when the service starts.
	OnStartup bool

	// Interval between scheduled runs. Zero or negative disables the
	// schedule; on-demand runs through Trigger still work.
	Interval time.Duration

	// Timeout bounds one run, including save and publish.
	// Default: 30m
	Timeout time.Duration
}

// TrainService trains the engine on a schedule and on demand, saves the
// artifact and publishes a model event so that other instances reload.
type TrainService struct {
	engine    *recommend.Engine
	provider  recommend.DataProvider
	store     recommend.ModelStore
	publisher ModelPublisher
	config    TrainServiceConfig
	logger    zerolog.Logger
	name      string

	// trigger holds at most one pending on-demand run.
	trigger chan struct{}
}

// NewTrainService creates the service. publisher may be nil, in which case
// models are saved but not announced.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainService(
	engine *recommend.Engine,
	provider recommend.DataProvider,
	store recommend.ModelStore,
	publisher ModelPublisher,
	cfg TrainServiceConfig,
	logger zerolog.Logger,
) *TrainService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTrainTimeout
	}
	return &TrainService{
		engine:    engine,
		provider:  provider,
		store:     store,
		publisher: publisher,
		config:    cfg,
		logger:    logger.With().Str("service", "train").Logger(),
		name:      "train-service",
		trigger:   make(chan struct{}, 1),
	}
}

// Serve implements suture.Service. Failed runs are logged and retried at the
// next tick; they never stop the service.
func (s *TrainService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.OnStartup).
		Dur("train_interval", s.config.Interval).
		Msg("training service starting")

	if s.config.OnStartup {
		s.runLogged(ctx, "startup")
	}

	var tick <-chan time.Time
	if s.config.Interval > 0 {
		ticker := time.NewTicker(s.config.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("training service shutting down")
			return ctx.Err()
		case <-tick:
			s.runLogged(ctx, "schedule")
		case <-s.trigger:
			s.runLogged(ctx, "api")
		}
	}
}

// Trigger queues an on-demand run. It returns recommend.ErrTrainingInProgress
// when a run is active or already queued.
func (s *TrainService) Trigger() error {
	if s.engine.IsTraining() {
		return recommend.ErrTrainingInProgress
	}
	select {
	case s.trigger <- struct{}{}:
		return nil
	default:
		return recommend.ErrTrainingInProgress
	}
}

func (s *TrainService) runLogged(ctx context.Context, reason string) {
	ctx = logging.ContextWithCorrelationID(ctx, logging.GenerateCorrelationID())
	if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Ctx(ctx).Warn().Err(err).Str("reason", reason).Msg("training run failed")
	}
}

// RunOnce trains, saves and publishes one model. A degenerate run still
// saves its popularity-only model.
func (s *TrainService) RunOnce(ctx context.Context) (recommend.TrainReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	m, report, err := s.engine.TrainModel(ctx, s.provider)
	if err != nil {
		return report, fmt.Errorf("train: %w", err)
	}
	// A reload may replace the published model once training returns; the
	// artifact and the event describe the trained one.
	if err := s.engine.SaveModel(ctx, s.store, m); err != nil {
		return report, fmt.Errorf("save model: %w", err)
	}

	if s.publisher != nil {
		ev := events.NewModelPublished(m.Stats(), s.store.Location())
		if err := s.publisher.PublishModel(ctx, ev); err != nil {
			// The model is saved; peers pick it up on their next refresh.
			logging.Ctx(ctx).Warn().Err(err).Int64("version", ev.Version).Msg("model event not published")
		}
	}

	logging.Ctx(ctx).Info().
		Int64("version", report.Version).
		Bool("degenerate", report.Degenerate).
		Str("location", s.store.Location()).
		Msg("model trained and saved")
	return report, nil
}

// String names the service in supervisor logs.
func (s *TrainService) String() string {
	return s.name
}
