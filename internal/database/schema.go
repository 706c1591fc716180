// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package database

import (
	"context"
	"fmt"
)

// Interaction types stored in user_interactions.interaction_type.
const (
	InteractionView      = "view"
	InteractionAddToCart = "add_to_cart"
	InteractionPurchase  = "purchase"
	InteractionRating    = "rating"
)

// Order statuses. Only cancelled orders are excluded from training.
const (
	OrderStatusCompleted = "COMPLETED"
	OrderStatusPending   = "PENDING"
	OrderStatusCancelled = "CANCELLED"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL,
		description VARCHAR,
		category VARCHAR,
		price DOUBLE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGINT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		status VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		product_name VARCHAR,
		quantity INTEGER NOT NULL DEFAULT 1,
		price DOUBLE
	)`,
	`CREATE SEQUENCE IF NOT EXISTS user_interactions_id_seq START 1`,
	`CREATE TABLE IF NOT EXISTS user_interactions (
		id BIGINT PRIMARY KEY DEFAULT nextval('user_interactions_id_seq'),
		user_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		interaction_type VARCHAR NOT NULL,
		rating DOUBLE,
		quantity INTEGER DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

var indexStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_product_id ON order_items(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_user_interactions_user_id ON user_interactions(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_user_interactions_product_id ON user_interactions(product_id)`,
}

func (db *DB) createTables(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func (db *DB) createIndexes(ctx context.Context) error {
	for _, stmt := range indexStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
