// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

/*
Package api provides the HTTP REST API of the recommender.

Every response uses the models.APIResponse envelope:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "...", "query_time_ms": 1}}
	{"status": "error", "error": {"code": "MODEL_NOT_LOADED", "message": "..."}, "metadata": {...}}

Endpoints:

	GET  /health                                          liveness and model state
	GET  /stats                                           model, training and cache statistics
	GET  /metrics                                         Prometheus metrics
	GET  /api/recommendations/user/{userID}               personalized recommendations
	GET  /api/recommendations/user/{userID}/history       purchase history from DuckDB
	GET  /api/recommendations/product/{productID}/similar item-to-item similarity
	GET  /api/recommendations/popular                     popularity ranking
	GET  /api/recommendations/embedding/{kind}/{id}       stored latent vector
	POST /api/recommendations/refresh                     reload the model artifact (admin)
	POST /api/recommendations/train                       schedule a training run (admin)

Path ids that parse as integers are numeric ids, anything else is a text id,
so /user/42 and /user/user_42 address different users.

Each request captures the published model once. Recommendation lists are
cached under the model version, so a publish makes earlier entries
unreachable without an explicit purge.

Usage:

	handler, err := api.NewHandler(api.HandlerDeps{
	    Engine: engine,
	    Store:  store,
	    Shop:   db,
	    Cache:  cache.New(cfg.Recommend.CacheSize, cfg.Recommend.CacheTTL),
	    Config: cfg,
	})
	mw := api.NewChiMiddleware(api.ChiMiddlewareConfigFromServer(&cfg.Server))
	router := api.NewRouter(handler, mw, auth.NewMiddleware(jwtManager, cfg.Security.AuthMode))
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}
*/
package api
