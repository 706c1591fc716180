// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Validates(t *testing.T) {
	t.Parallel()

	if err := defaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "SERVICE_PORT"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "SERVICE_PORT"},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }, "SERVICE_TIMEOUT"},
		{"rate limit too low", func(c *Config) { c.Server.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate window too long", func(c *Config) { c.Server.RateLimitWindow = 2 * time.Hour }, "RATE_LIMIT_WINDOW"},
		{"unknown store", func(c *Config) { c.Model.Store = "s3" }, "MODEL_STORE"},
		{"file store without path", func(c *Config) { c.Model.Path = "" }, "MODEL_PATH"},
		{"badger store without path", func(c *Config) {
			c.Model.Store = "badger"
			c.Model.BadgerPath = ""
		}, "MODEL_BADGER_PATH"},
		{"zero factors", func(c *Config) { c.Model.Factors = 0 }, "MODEL_FACTORS"},
		{"zero iterations", func(c *Config) { c.Model.Iterations = 0 }, "MODEL_ITERATIONS"},
		{"zero content features", func(c *Config) { c.Model.ContentMaxFeatures = 0 }, "MODEL_CONTENT_MAX_FEATURES"},
		{"negative min interactions", func(c *Config) { c.Model.MinUserInteractions = -1 }, "MIN_INTERACTIONS"},
		{"default above max", func(c *Config) { c.Recommend.DefaultLimit = 60 }, "recommendation limits"},
		{"similar default above max", func(c *Config) { c.Recommend.SimilarDefaultLimit = 30 }, "similar limits"},
		{"popular above max", func(c *Config) { c.Recommend.PopularLimit = 100 }, "COLD_START_POPULAR_COUNT"},
		{"cache without ttl", func(c *Config) { c.Recommend.CacheTTL = 0 }, "RECOMMEND_CACHE_TTL"},
		{"negative interval", func(c *Config) { c.Training.Interval = -time.Second }, "TRAIN_INTERVAL"},
		{"zero train timeout", func(c *Config) { c.Training.Timeout = 0 }, "TRAIN_TIMEOUT"},
		{"unknown events backend", func(c *Config) { c.Events.Backend = "kafka" }, "EVENTS_BACKEND"},
		{"nats without url", func(c *Config) {
			c.Events.Backend = "nats"
			c.Events.NATSURL = ""
		}, "NATS_URL"},
		{"empty topic", func(c *Config) { c.Events.Topic = " " }, "EVENTS_TOPIC"},
		{"unknown auth mode", func(c *Config) { c.Security.AuthMode = "basic" }, "AUTH_MODE"},
		{"jwt short secret", func(c *Config) {
			c.Security.AuthMode = "jwt"
			c.Security.JWTSecret = "short"
		}, "at least 32"},
		{"jwt placeholder secret", func(c *Config) {
			c.Security.AuthMode = "jwt"
			c.Security.JWTSecret = "REPLACE_WITH_A_REAL_SECRET_VALUE_0123456789"
		}, "placeholder"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_RateLimitDisabledSkipsBounds(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Server.RateLimitDisabled = true
	cfg.Server.RateLimitReqs = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with rate limiting disabled: %v", err)
	}
}

func TestValidate_JWTModeAccepted(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Security.AuthMode = "jwt"
	cfg.Security.JWTSecret = "k9Qz7mW2xP4vN8rT1yL6bH3sD5fJ0gA2"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestServerConfig_Addr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "127.0.0.1", Port: 8085}
	if got := s.Addr(); got != "127.0.0.1:8085" {
		t.Errorf("Addr() = %q", got)
	}
}

func TestEngineConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Model.Factors = 16
	cfg.Model.Iterations = 5
	cfg.Model.Seed = 7
	cfg.Model.ContentMaxFeatures = 100
	cfg.Model.MinUserInteractions = 2
	cfg.Model.MinItemInteractions = 3
	cfg.Training.Timeout = time.Minute

	rc := cfg.EngineConfig()
	if rc.Factors.Count != 16 || rc.Factors.Iterations != 5 || rc.Factors.Seed != 7 {
		t.Errorf("factor settings = %+v", rc.Factors)
	}
	if rc.Content.MaxFeatures != 100 {
		t.Errorf("Content.MaxFeatures = %d", rc.Content.MaxFeatures)
	}
	if rc.Filter.MinUserInteractions != 2 || rc.Filter.MinItemInteractions != 3 {
		t.Errorf("filter settings = %+v", rc.Filter)
	}
	if rc.Training.Timeout != time.Minute {
		t.Errorf("Training.Timeout = %v", rc.Training.Timeout)
	}
	if err := rc.Validate(); err != nil {
		t.Errorf("engine config should validate: %v", err)
	}
}

func TestLoggingOptions(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "console"
	cfg.Logging.Caller = true

	lc := cfg.LoggingOptions()
	if lc.Level != "debug" || lc.Format != "console" || !lc.Caller {
		t.Errorf("LoggingOptions() = %+v", lc)
	}
}
