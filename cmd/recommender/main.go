// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

// Package main is the entry point of the ShopAI recommender.
//
// The binary serves hybrid product recommendations over HTTP and runs the
// offline jobs around the model: training, artifact inspection, admin token
// minting and demo data seeding.
//
// # Commands
//
//	recommender serve                     # HTTP API under the supervisor tree
//	recommender train [--synthetic]       # train, save and optionally publish a model
//	recommender train --evaluate          # train on 80% and report precision/recall@10
//	recommender stats [--json]            # print the stats of the saved artifact
//	recommender token --user ops          # mint an admin JWT
//	recommender seed                      # fill DuckDB with synthetic shop data
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (SERVICE_PORT, MODEL_PATH, AUTH_MODE, ...)
//   - Config file (--config, CONFIG_PATH or config.yaml)
//   - Built-in defaults
//
// # Signal Handling
//
// serve and train stop on SIGINT and SIGTERM. serve drains in-flight
// requests before exiting; an interrupted training run saves nothing.
//
// # Example Usage
//
//	./recommender seed
//	./recommender train --factors 32 --publish
//	AUTH_MODE=jwt JWT_SECRET=$(openssl rand -base64 32) ./recommender serve
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
