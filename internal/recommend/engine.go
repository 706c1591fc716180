// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package recommend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shopai-recommender/internal/metrics"
)

// Operation labels used in logs and metrics.
const (
	opUser    = "user"
	opSimilar = "similar"
	opPopular = "popular"
)

// Engine owns the currently published Model and coordinates training,
// reloading and serving. It is safe for concurrent use.
//
// Requests capture the model pointer once, so a publish that happens while a
// request is being served never changes the data that request sees.
type Engine struct {
	config *Config
	logger zerolog.Logger

	model atomic.Pointer[Model]

	// publishMu makes the version check and the store in Publish one step,
	// so concurrent training and reloads never share a version.
	publishMu sync.Mutex

	// trainMu admits one training run at a time. It never blocks readers.
	trainMu    sync.Mutex
	training   atomic.Bool
	lastReport atomic.Pointer[TrainReport]
}

// NewEngine creates an untrained engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Model returns the published model, or nil before the first successful
// training run or load.
func (e *Engine) Model() *Model {
	return e.model.Load()
}

// IsTrained reports whether a model has been published.
func (e *Engine) IsTrained() bool {
	return e.model.Load() != nil
}

// IsTraining reports whether a training run is in progress.
func (e *Engine) IsTraining() bool {
	return e.training.Load()
}

// LastTrainReport returns the report of the most recent successful run.
func (e *Engine) LastTrainReport() (TrainReport, bool) {
	r := e.lastReport.Load()
	if r == nil {
		return TrainReport{}, false
	}
	return *r, true
}

// Train loads data from provider, fits a new model and publishes it.
// Only loading honors ctx; fitting runs to completion once started.
// A concurrent call returns ErrTrainingInProgress. On failure the previously
// published model stays in place.
func (e *Engine) Train(ctx context.Context, provider DataProvider) (TrainReport, error) {
	_, report, err := e.TrainModel(ctx, provider)
	return report, err
}

// TrainModel is Train returning the published model as well. Callers that
// save or announce the result must use this model rather than Model(),
// which a concurrent reload may already have replaced.
func (e *Engine) TrainModel(ctx context.Context, provider DataProvider) (*Model, TrainReport, error) {
	if !e.trainMu.TryLock() {
		return nil, TrainReport{}, ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()
	e.training.Store(true)
	defer e.training.Store(false)

	start := time.Now()
	e.logger.Info().Msg("starting model training")

	m, report, err := e.train(ctx, provider)
	if err != nil {
		metrics.RecordTraining("failure", 0)
		e.logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("model training failed")
		return nil, TrainReport{}, err
	}

	result := "success"
	if report.Degenerate {
		result = "degenerate"
	}
	metrics.RecordTraining(result, report.Duration)

	e.logger.Info().
		Int64("version", report.Version).
		Int("interactions", report.Interactions).
		Int("filtered_out", report.FilteredOut).
		Int("users", report.Users).
		Int("products", report.Items).
		Int("latent_dim", report.LatentDim).
		Bool("content_features", report.HasContent).
		Int64("duration_ms", report.Duration.Milliseconds()).
		Msg("model training complete")
	return m, report, nil
}

func (e *Engine) train(ctx context.Context, provider DataProvider) (*Model, TrainReport, error) {
	if provider == nil {
		return nil, TrainReport{}, fmt.Errorf("data provider not set")
	}

	loadCtx, cancel := context.WithTimeout(ctx, e.config.Training.Timeout)
	defer cancel()

	interactions, err := provider.GetInteractions(loadCtx)
	if err != nil {
		return nil, TrainReport{}, fmt.Errorf("get interactions: %w", err)
	}
	items, err := provider.GetItems(loadCtx)
	if err != nil {
		// Metadata only feeds content features; train without it.
		e.logger.Warn().Err(err).Msg("failed to load product metadata, continuing without content features")
		items = nil
	}

	m, report, err := Fit(interactions, items, e.config, e.logger)
	if err != nil {
		return nil, TrainReport{}, err
	}
	m = e.Publish(m)
	report.Version = m.Version()
	e.lastReport.Store(&report)
	return m, report, nil
}

// Publish makes m the current model and returns the published instance.
// Versions are kept strictly increasing: a model whose version does not
// exceed the current one is republished under current+1.
// Concurrent calls are serialized and each returns a distinct version.
func (e *Engine) Publish(m *Model) *Model {
	e.publishMu.Lock()
	defer e.publishMu.Unlock()

	if cur := e.model.Load(); cur != nil && m.Version() <= cur.Version() {
		m = m.withVersion(cur.Version() + 1)
	}
	e.model.Store(m)

	s := m.Stats()
	metrics.SetModelShape(s.Users, s.Items, s.LatentDim)
	e.logger.Info().
		Int64("version", s.Version).
		Int("users", s.Users).
		Int("products", s.Items).
		Msg("model published")
	return m
}

// Reload loads a model from store and publishes it. On error the current
// model stays in place and the error, an *ArtifactError for missing or
// corrupt artifacts, is returned.
func (e *Engine) Reload(ctx context.Context, store ModelStore) (*Model, error) {
	m, err := store.Load(ctx)
	metrics.RecordReload(err)
	if err != nil {
		e.logger.Warn().Err(err).Str("location", store.Location()).Msg("model reload failed")
		return nil, err
	}
	e.logger.Info().Str("location", store.Location()).Int64("version", m.Version()).Msg("model loaded from artifact")
	return e.Publish(m), nil
}

// Save persists the current model to store.
func (e *Engine) Save(ctx context.Context, store ModelStore) error {
	return e.SaveModel(ctx, store, e.model.Load())
}

// SaveModel persists m to store. It returns ErrNotTrained for a nil model.
func (e *Engine) SaveModel(ctx context.Context, store ModelStore, m *Model) error {
	if m == nil {
		return ErrNotTrained
	}
	if err := store.Save(ctx, m); err != nil {
		return err
	}
	e.logger.Info().Str("location", store.Location()).Int64("version", m.Version()).Msg("model saved")
	return nil
}

// RecommendForUser returns up to n products for user. Unknown users and
// internal scoring failures are answered from the popularity ranking; only
// ErrNotTrained is returned as an error.
func (e *Engine) RecommendForUser(user ID, n int, excludeInteracted bool) ([]Recommendation, error) {
	return e.RecommendForUserWith(e.model.Load(), user, n, excludeInteracted)
}

// RecommendForUserWith is RecommendForUser against a model the caller has
// already captured, so a response and its cache key describe one model.
func (e *Engine) RecommendForUserWith(m *Model, user ID, n int, excludeInteracted bool) ([]Recommendation, error) {
	if m == nil {
		return nil, ErrNotTrained
	}
	start := time.Now()
	if n <= 0 {
		return []Recommendation{}, nil
	}

	out := m.scoreUser(user, n, excludeInteracted)
	recs := e.resolve(m, opUser, user, n, out)
	metrics.RecordRecommendation(opUser, strategyOf(recs, StrategyCollaborative), time.Since(start))
	return recs, nil
}

// RecommendSimilarItem returns up to n products similar to item, never
// including item itself. Unknown products fall back to popularity.
func (e *Engine) RecommendSimilarItem(item ID, n int) ([]Recommendation, error) {
	return e.RecommendSimilarItemWith(e.model.Load(), item, n)
}

// RecommendSimilarItemWith is RecommendSimilarItem against a captured model.
func (e *Engine) RecommendSimilarItemWith(m *Model, item ID, n int) ([]Recommendation, error) {
	if m == nil {
		return nil, ErrNotTrained
	}
	start := time.Now()
	if n <= 0 {
		return []Recommendation{}, nil
	}

	out := m.scoreSimilar(item, n)
	recs := e.resolve(m, opSimilar, item, n, out)
	metrics.RecordRecommendation(opSimilar, strategyOf(recs, StrategyItemSimilarity), time.Since(start))
	return recs, nil
}

// PopularFallback returns the n most popular products. An empty list is
// returned when the model has no popularity data.
func (e *Engine) PopularFallback(n int) ([]Recommendation, error) {
	return e.PopularFallbackWith(e.model.Load(), n)
}

// PopularFallbackWith is PopularFallback against a captured model.
func (e *Engine) PopularFallbackWith(m *Model, n int) ([]Recommendation, error) {
	if m == nil {
		return nil, ErrNotTrained
	}
	start := time.Now()
	recs := m.PopularFallback(n)
	metrics.RecordRecommendation(opPopular, string(StrategyPopularity), time.Since(start))
	return recs, nil
}

// GetEmbedding returns a copy of the stored vector for id. It reports false
// for unknown ids, for models without latent factors and before training.
func (e *Engine) GetEmbedding(kind EntityKind, id ID) ([]float32, bool) {
	m := e.model.Load()
	if m == nil {
		return nil, false
	}
	return m.Embedding(kind, id)
}

// GetStats summarizes the published model. It never fails; an untrained
// engine reports Trained=false.
func (e *Engine) GetStats() Stats {
	m := e.model.Load()
	if m == nil {
		return Stats{Factors: e.config.Factors.Count}
	}
	return m.Stats()
}

// resolve turns a scoring outcome into the list returned to callers,
// falling back to popularity for every failure kind.
func (e *Engine) resolve(m *Model, op string, id ID, n int, out outcome) []Recommendation {
	if out.failure == failureNone {
		return out.recs
	}

	metrics.RecordFallback(op, out.failure.String())
	var ev *zerolog.Event
	if out.failure == failureScoring {
		ev = e.logger.Warn().Err(out.err)
	} else {
		ev = e.logger.Debug()
	}
	ev.Str("operation", op).
		Str("id", id.String()).
		Str("reason", out.failure.String()).
		Msg("falling back to popularity")

	return m.PopularFallback(n)
}

// strategyOf returns the strategy label of a result list, or want when the
// list is empty.
func strategyOf(recs []Recommendation, want Strategy) string {
	if len(recs) == 0 {
		return string(want)
	}
	return string(recs[0].Strategy)
}
