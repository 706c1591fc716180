// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/shopai-recommender/internal/logging"
	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

// Config holds all service configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in values from defaultConfig
//  2. Config File: Optional YAML file (CONFIG_PATH or config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Config is immutable after LoadWithKoanf and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Model     ModelConfig     `koanf:"model"`
	Recommend RecommendConfig `koanf:"recommend"`
	Training  TrainingConfig  `koanf:"training"`
	Database  DatabaseConfig  `koanf:"database"`
	Events    EventsConfig    `koanf:"events"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port              int           `koanf:"port"`
	Host              string        `koanf:"host"`
	Timeout           time.Duration `koanf:"timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ModelConfig holds training parameters and artifact storage settings.
type ModelConfig struct {
	// Path is the artifact file used by the file store.
	Path string `koanf:"path"`

	// Store selects the artifact backend: "file" or "badger".
	Store string `koanf:"store"`

	// BadgerPath is the registry directory used by the badger store.
	BadgerPath string `koanf:"badger_path"`

	Factors             int   `koanf:"factors"`
	Iterations          int   `koanf:"iterations"`
	Seed                int64 `koanf:"seed"`
	ContentMaxFeatures  int   `koanf:"content_max_features"`
	MinUserInteractions int   `koanf:"min_user_interactions"`
	MinItemInteractions int   `koanf:"min_item_interactions"`
}

// RecommendConfig holds serving limits and the response cache.
type RecommendConfig struct {
	DefaultLimit        int           `koanf:"default_limit"`
	MaxLimit            int           `koanf:"max_limit"`
	SimilarDefaultLimit int           `koanf:"similar_default_limit"`
	SimilarMaxLimit     int           `koanf:"similar_max_limit"`
	PopularLimit        int           `koanf:"popular_limit"`
	CacheSize           int           `koanf:"cache_size"`
	CacheTTL            time.Duration `koanf:"cache_ttl"`
}

// TrainingConfig holds the retraining schedule.
type TrainingConfig struct {
	OnStartup          bool          `koanf:"on_startup"`
	Interval           time.Duration `koanf:"interval"`
	Timeout            time.Duration `koanf:"timeout"`
	RefreshMinInterval time.Duration `koanf:"refresh_min_interval"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// EventsConfig holds the model event bus settings.
type EventsConfig struct {
	// Backend is "channel" (in-process) or "nats".
	Backend string `koanf:"backend"`
	NATSURL string `koanf:"nats_url"`
	Topic   string `koanf:"topic"`
}

// SecurityConfig holds admin authentication settings.
type SecurityConfig struct {
	// AuthMode is "none" or "jwt". In jwt mode refresh and train require an
	// admin bearer token.
	AuthMode       string        `koanf:"auth_mode"`
	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// EngineConfig converts the model and training sections into the engine's
// configuration.
func (c *Config) EngineConfig() *recommend.Config {
	rc := recommend.DefaultConfig()
	rc.Factors.Count = c.Model.Factors
	rc.Factors.Iterations = c.Model.Iterations
	rc.Factors.Seed = c.Model.Seed
	rc.Content.MaxFeatures = c.Model.ContentMaxFeatures
	rc.Filter.MinUserInteractions = c.Model.MinUserInteractions
	rc.Filter.MinItemInteractions = c.Model.MinItemInteractions
	if c.Training.Timeout > 0 {
		rc.Training.Timeout = c.Training.Timeout
	}
	return rc
}

// LoggingOptions converts the logging section for logging.Init.
func (c *Config) LoggingOptions() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Logging.Level
	lc.Format = c.Logging.Format
	lc.Caller = c.Logging.Caller
	return lc
}
