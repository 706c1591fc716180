// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

/*
Package models defines the data structures shared by the database layer, the
HTTP API and the CLI.

Model Categories:

1. Shop Records (database rows):
  - Product: catalogue entry used for content features
  - Order, OrderItem: purchases that feed training and history
  - UserInteraction: views, add_to_cart, purchases and ratings
  - PopularProduct, PurchaseRecord: read models for cold start and history

2. API Envelope:
  - APIResponse: standard wrapper with status, data, metadata and error
  - APIError: machine-readable code plus message

3. Recommendation Payloads:
  - UserRecommendationsResponse, SimilarProductsResponse
  - PopularProductsResponse, PurchaseHistoryResponse
  - HealthResponse, RefreshResponse, TrainResponse, EmbeddingResponse

Identifiers in payloads are recommend.ID values: they serialize as JSON
numbers for numeric ids and as strings otherwise.
*/
package models
