// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

// Package services wraps the long-running parts of the recommender as
// suture.Service implementations: the HTTP server, the training loop and
// the model reload consumer.
package services
