// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/shopai-recommender/internal/logging"
	"github.com/tomtom215/shopai-recommender/internal/metrics"
	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

// providerBreakerName labels the breaker in logs and metrics.
const providerBreakerName = "training-data"

// TrainingSource is the subset of DB used to build training data.
type TrainingSource interface {
	LoadAllInteractions(ctx context.Context) ([]recommend.Interaction, error)
	GetProducts(ctx context.Context) ([]recommend.Item, error)
}

// BreakerSettings configures the provider's circuit breaker.
type BreakerSettings struct {
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures uint32

	// Timeout is how long the circuit stays open before a trial request.
	Timeout time.Duration
}

// DefaultBreakerSettings opens after 3 consecutive failures and retries
// after 30 seconds.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{MaxFailures: 3, Timeout: 30 * time.Second}
}

// Provider adapts a TrainingSource to recommend.DataProvider. Loads go
// through a circuit breaker so a broken database fails training fast
// instead of waiting on every scheduled run.
//
// DETERMINISM NOTE: the breaker uses wall-clock time for its open timeout.
// Tests should assert on rejection, not on recovery timing.
type Provider struct {
	source TrainingSource
	cb     *gobreaker.CircuitBreaker[any]
}

var _ recommend.DataProvider = (*Provider)(nil)

// NewProvider wraps source with the default breaker settings.
func NewProvider(source TrainingSource) *Provider {
	return NewProviderWithSettings(source, DefaultBreakerSettings())
}

// NewProviderWithSettings wraps source with a custom breaker.
func NewProviderWithSettings(source TrainingSource, s BreakerSettings) *Provider {
	maxFailures := s.MaxFailures
	if maxFailures == 0 {
		maxFailures = 1
	}
	metrics.CircuitBreakerState.WithLabelValues(providerBreakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        providerBreakerName,
		MaxRequests: 1,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= maxFailures
			if trip {
				logging.Warn().Uint32("failures", counts.ConsecutiveFailures).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},
		// Cancellation comes from the caller and says nothing about the database.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &Provider{source: source, cb: cb}
}

// GetInteractions loads merged order and event interactions.
func (p *Provider) GetInteractions(ctx context.Context) ([]recommend.Interaction, error) {
	out, err := castResult[[]recommend.Interaction](p.cb.Execute(func() (any, error) {
		rows, err := p.source.LoadAllInteractions(ctx)
		if err != nil {
			return nil, err
		}
		return &rows, nil
	}))
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// GetItems loads catalogue metadata.
func (p *Provider) GetItems(ctx context.Context) ([]recommend.Item, error) {
	out, err := castResult[[]recommend.Item](p.cb.Execute(func() (any, error) {
		items, err := p.source.GetProducts(ctx)
		if err != nil {
			return nil, err
		}
		return &items, nil
	}))
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// State reports the breaker state.
func (p *Provider) State() gobreaker.State {
	return p.cb.State()
}

// castResult safely type-casts the circuit breaker result.
func castResult[T any](result any, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// stateToFloat converts breaker state to a gauge value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
