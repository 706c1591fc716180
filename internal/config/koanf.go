// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/shopai-recommender/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults. They are applied first and
// overridden by the config file and environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    8085,
			Host:    "0.0.0.0",
			Timeout: 30 * time.Second,
			CORSOrigins: []string{
				"http://localhost:4200",
				"http://localhost:4201",
				"http://localhost:4202",
				"http://localhost:4203",
				"http://localhost:4205",
				"http://localhost:4300",
				"http://localhost:8080",
			},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Model: ModelConfig{
			Path:                "models/recommender_model.gob.gz",
			Store:               "file",
			BadgerPath:          "models/registry",
			Factors:             64,
			Iterations:          30,
			Seed:                42,
			ContentMaxFeatures:  500,
			MinUserInteractions: 1,
			MinItemInteractions: 1,
		},
		Recommend: RecommendConfig{
			DefaultLimit:        10,
			MaxLimit:            50,
			SimilarDefaultLimit: 5,
			SimilarMaxLimit:     20,
			PopularLimit:        20,
			CacheSize:           10000,
			CacheTTL:            5 * time.Minute,
		},
		Training: TrainingConfig{
			OnStartup:          false,
			Interval:           24 * time.Hour,
			Timeout:            30 * time.Minute,
			RefreshMinInterval: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:      "data/shopai.duckdb",
			MaxMemory: "1GB",
			Threads:   0, // 0 = DuckDB default
		},
		Events: EventsConfig{
			Backend: "channel",
			NATSURL: "nats://127.0.0.1:4222",
			Topic:   "recommender.model.published",
		},
		Security: SecurityConfig{
			AuthMode:       "none",
			SessionTimeout: 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Defaults returns a fresh copy of the built-in configuration.
func Defaults() *Config {
	return defaultConfig()
}

// LoadWithKoanf loads configuration from defaults, an optional YAML file and
// environment variables, in increasing priority, then validates it.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unlisted variables are ignored.
var envMappings = map[string]string{
	// Server
	"service_port":        "server.port",
	"service_host":        "server.host",
	"service_timeout":     "server.timeout",
	"cors_origins":        "server.cors_origins",
	"rate_limit_requests": "server.rate_limit_reqs",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",

	// Model
	"model_path":                 "model.path",
	"model_store":                "model.store",
	"model_badger_path":          "model.badger_path",
	"model_factors":              "model.factors",
	"model_iterations":           "model.iterations",
	"model_seed":                 "model.seed",
	"model_content_max_features": "model.content_max_features",
	"min_interactions":           "model.min_user_interactions",
	"min_item_interactions":      "model.min_item_interactions",

	// Serving
	"default_num_recommendations": "recommend.default_limit",
	"max_num_recommendations":     "recommend.max_limit",
	"default_similar_limit":       "recommend.similar_default_limit",
	"max_similar_limit":           "recommend.similar_max_limit",
	"cold_start_popular_count":    "recommend.popular_limit",
	"recommend_cache_size":        "recommend.cache_size",
	"recommend_cache_ttl":         "recommend.cache_ttl",

	// Training
	"train_on_startup":     "training.on_startup",
	"train_interval":       "training.interval",
	"train_timeout":        "training.timeout",
	"refresh_min_interval": "training.refresh_min_interval",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Events
	"events_backend": "events.backend",
	"nats_url":       "events.nats_url",
	"events_topic":   "events.topic",

	// Security
	"auth_mode":       "security.auth_mode",
	"jwt_secret":      "security.jwt_secret",
	"session_timeout": "security.session_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path.
// It returns "" for unmapped names so stray variables never reach the config.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
