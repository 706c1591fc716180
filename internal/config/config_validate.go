// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package config

import (
	"fmt"
	"strings"
	"time"
)

// Rate limit bounds
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

const minJWTSecretLen = 32

var (
	validModelStores   = map[string]bool{"file": true, "badger": true}
	validEventBackends = map[string]bool{"channel": true, "nats": true}
	validAuthModes     = map[string]bool{"none": true, "jwt": true}
	validLogLevels     = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	validLogFormats    = map[string]bool{"json": true, "console": true}
)

// Validate checks that configuration values are present and consistent.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateModel,
		c.validateRecommend,
		c.validateTraining,
		c.validateEvents,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVICE_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVICE_TIMEOUT must be positive")
	}
	if c.Server.RateLimitDisabled {
		return nil
	}
	if c.Server.RateLimitReqs < minRateLimitRequests || c.Server.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Server.RateLimitWindow < minRateLimitWindow || c.Server.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateModel() error {
	if !validModelStores[c.Model.Store] {
		return fmt.Errorf("MODEL_STORE must be one of: file, badger")
	}
	if c.Model.Store == "file" && c.Model.Path == "" {
		return fmt.Errorf("MODEL_PATH is required when MODEL_STORE=file")
	}
	if c.Model.Store == "badger" && c.Model.BadgerPath == "" {
		return fmt.Errorf("MODEL_BADGER_PATH is required when MODEL_STORE=badger")
	}
	if c.Model.Factors < 1 {
		return fmt.Errorf("MODEL_FACTORS must be positive, got %d", c.Model.Factors)
	}
	if c.Model.Iterations < 1 {
		return fmt.Errorf("MODEL_ITERATIONS must be positive, got %d", c.Model.Iterations)
	}
	if c.Model.ContentMaxFeatures < 1 {
		return fmt.Errorf("MODEL_CONTENT_MAX_FEATURES must be positive, got %d", c.Model.ContentMaxFeatures)
	}
	if c.Model.MinUserInteractions < 0 || c.Model.MinItemInteractions < 0 {
		return fmt.Errorf("MIN_INTERACTIONS and MIN_ITEM_INTERACTIONS must be non-negative")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.DefaultLimit < 1 || r.MaxLimit < r.DefaultLimit {
		return fmt.Errorf("recommendation limits must satisfy 1 <= default (%d) <= max (%d)", r.DefaultLimit, r.MaxLimit)
	}
	if r.SimilarDefaultLimit < 1 || r.SimilarMaxLimit < r.SimilarDefaultLimit {
		return fmt.Errorf("similar limits must satisfy 1 <= default (%d) <= max (%d)", r.SimilarDefaultLimit, r.SimilarMaxLimit)
	}
	if r.PopularLimit < 1 || r.PopularLimit > r.MaxLimit {
		return fmt.Errorf("COLD_START_POPULAR_COUNT must be between 1 and %d", r.MaxLimit)
	}
	if r.CacheSize < 0 {
		return fmt.Errorf("RECOMMEND_CACHE_SIZE must be non-negative")
	}
	if r.CacheSize > 0 && r.CacheTTL <= 0 {
		return fmt.Errorf("RECOMMEND_CACHE_TTL must be positive when the cache is enabled")
	}
	return nil
}

func (c *Config) validateTraining() error {
	if c.Training.Interval < 0 {
		return fmt.Errorf("TRAIN_INTERVAL must be non-negative")
	}
	if c.Training.Timeout <= 0 {
		return fmt.Errorf("TRAIN_TIMEOUT must be positive")
	}
	if c.Training.RefreshMinInterval < 0 {
		return fmt.Errorf("REFRESH_MIN_INTERVAL must be non-negative")
	}
	return nil
}

func (c *Config) validateEvents() error {
	if !validEventBackends[c.Events.Backend] {
		return fmt.Errorf("EVENTS_BACKEND must be one of: channel, nats")
	}
	if c.Events.Backend == "nats" && c.Events.NATSURL == "" {
		return fmt.Errorf("NATS_URL is required when EVENTS_BACKEND=nats")
	}
	if strings.TrimSpace(c.Events.Topic) == "" {
		return fmt.Errorf("EVENTS_TOPIC must not be empty")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if !validAuthModes[c.Security.AuthMode] {
		return fmt.Errorf("AUTH_MODE must be one of: none, jwt")
	}
	if c.Security.AuthMode != "jwt" {
		return nil
	}
	if len(c.Security.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("JWT_SECRET must be at least %d characters when AUTH_MODE=jwt", minJWTSecretLen)
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate one with: openssl rand -base64 32")
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

var placeholderPatterns = []string{"REPLACE", "CHANGEME", "CHANGE_ME", "YOUR_SECRET", "PLACEHOLDER", "EXAMPLE"}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, p := range placeholderPatterns {
		if strings.Contains(upper, p) {
			return true
		}
	}
	return false
}
