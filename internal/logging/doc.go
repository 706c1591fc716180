// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

// Package logging provides centralized zerolog-based structured logging for
// the recommender service.
//
// A global logger is configured once from the CLI root with Init and is
// reachable through package functions. Long-lived components derive their
// own child logger and take it by value:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	engine, err := recommend.NewEngine(cfg, logging.WithComponent("recommend"))
//
// # Configuration
//
// Environment variables (read by internal/config):
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// # Request Context
//
// The HTTP layer stores a UUID request ID in the request context. Ctx returns
// a logger carrying it:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("artifact reload failed")
//
// # slog Bridge
//
// SlogHandler adapts zerolog to log/slog for libraries that only accept
// *slog.Logger: the supervisor tree (sutureslog) and the event bus
// (watermill.NewSlogLogger).
//
// # Sanitization
//
// SanitizeToken and SanitizeError keep bearer tokens and secrets out of
// logs written by the auth middleware.
package logging
