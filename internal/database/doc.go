// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

/*
Package database provides the DuckDB store that holds the shop's products,
orders and user interactions, and turns them into training data for the
recommendation engine.

# Tables

	products           catalogue rows used for content features
	orders             one row per order with status and timestamp
	order_items        order lines (product, quantity, price)
	user_interactions  views, add_to_cart, purchases and explicit ratings

# Training Data

Two sources feed training:

  - Order interactions: every line of an order that is not CANCELLED rates
    its product 5.0 scaled by 1 + 0.1*(quantity-1), clipped to 5.
  - User interactions: purchase rates COALESCE(rating, 5) with the same
    quantity scaling, rating uses the explicit rating, add_to_cart 4.0,
    view 2.5 and anything else 3.0. Every value is clipped to 5.

LoadAllInteractions concatenates orders first, then user interactions, and
keeps the first row for each (user, product) pair. An explicit rating row
with a NULL rating becomes an implicit interaction.

# Resilience

Provider implements recommend.DataProvider and runs every training load
through a sony/gobreaker circuit breaker so a failing database is not
hammered by scheduled retraining.

# Usage

	db, err := database.New(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

	provider := database.NewProvider(db)
	report, err := engine.Train(ctx, provider)
*/
package database
