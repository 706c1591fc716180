// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shopai-recommender/internal/events"
	"github.com/tomtom215/shopai-recommender/internal/logging"
	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

// ModelSubscriber delivers model events until ctx is canceled.
type ModelSubscriber interface {
	Consume(ctx context.Context, handler events.Handler) error
}

// ReloadService reloads the engine from the artifact store whenever a peer
// announces a newer model.
type ReloadService struct {
	engine     *recommend.Engine
	store      recommend.ModelStore
	subscriber ModelSubscriber
	logger     zerolog.Logger
	name       string
}

// NewReloadService creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewReloadService(
	engine *recommend.Engine,
	store recommend.ModelStore,
	subscriber ModelSubscriber,
	logger zerolog.Logger,
) *ReloadService {
	return &ReloadService{
		engine:     engine,
		store:      store,
		subscriber: subscriber,
		logger:     logger.With().Str("service", "reload").Logger(),
		name:       "reload-service",
	}
}

// Serve implements suture.Service. Consume only returns on cancellation or
// a subscription failure; the latter makes suture restart the service.
func (s *ReloadService) Serve(ctx context.Context) error {
	s.logger.Info().Str("location", s.store.Location()).Msg("reload service starting")
	return s.subscriber.Consume(ctx, s.HandleModelPublished)
}

// HandleModelPublished reloads the artifact unless the engine already serves
// ev.Version or newer. A failed reload keeps the current model.
//
//nolint:gocritic // ModelPublished is a small value type
func (s *ReloadService) HandleModelPublished(ctx context.Context, ev events.ModelPublished) error {
	if m := s.engine.Model(); m != nil && ev.Version <= m.Version() {
		s.logger.Debug().
			Int64("event_version", ev.Version).
			Int64("current_version", m.Version()).
			Msg("skipping stale model event")
		return nil
	}

	ctx = logging.ContextWithCorrelationID(ctx, ev.ModelID)
	m, err := s.engine.Reload(ctx, s.store)
	if err != nil {
		return err
	}
	logging.Ctx(ctx).Info().
		Int64("event_version", ev.Version).
		Int64("version", m.Version()).
		Msg("model reloaded from event")
	return nil
}

// String names the service in supervisor logs.
func (s *ReloadService) String() string {
	return s.name
}
