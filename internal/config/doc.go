// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

/*
Package config provides centralized configuration management for the
recommender service.

Configuration is layered with Koanf v2: struct defaults, then an optional
YAML file, then environment variables. Only variables listed in the mapping
table are read.

# Environment Variables

Server:
  - SERVICE_PORT, SERVICE_HOST, SERVICE_TIMEOUT (default: 8085, 0.0.0.0, 30s)
  - CORS_ORIGINS: comma-separated origins
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Model:
  - MODEL_STORE: file or badger (default: file)
  - MODEL_PATH: artifact file (default: models/recommender_model.gob.gz)
  - MODEL_BADGER_PATH: registry directory (default: models/registry)
  - MODEL_FACTORS, MODEL_ITERATIONS, MODEL_SEED (default: 64, 30, 42)
  - MODEL_CONTENT_MAX_FEATURES (default: 500)
  - MIN_INTERACTIONS, MIN_ITEM_INTERACTIONS (default: 1, 1)

Serving:
  - DEFAULT_NUM_RECOMMENDATIONS, MAX_NUM_RECOMMENDATIONS (default: 10, 50)
  - DEFAULT_SIMILAR_LIMIT, MAX_SIMILAR_LIMIT (default: 5, 20)
  - COLD_START_POPULAR_COUNT (default: 20)
  - RECOMMEND_CACHE_SIZE, RECOMMEND_CACHE_TTL (default: 10000, 5m)

Training:
  - TRAIN_ON_STARTUP, TRAIN_INTERVAL, TRAIN_TIMEOUT, REFRESH_MIN_INTERVAL

Database:
  - DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS

Events:
  - EVENTS_BACKEND: channel or nats
  - NATS_URL, EVENTS_TOPIC

Security:
  - AUTH_MODE: none or jwt
  - JWT_SECRET: at least 32 characters in jwt mode
  - SESSION_TIMEOUT: admin token lifetime

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Example

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    return err
	}
	logging.Init(cfg.LoggingOptions())
	engine, err := recommend.NewEngine(cfg.EngineConfig(), logging.WithComponent("recommend"))
*/
package config
