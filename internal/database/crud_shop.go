// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/shopai-recommender/internal/metrics"
	"github.com/tomtom215/shopai-recommender/internal/models"
)

// InsertProducts upserts catalogue rows in one transaction.
func (db *DB) InsertProducts(ctx context.Context, products []models.Product) error {
	start := time.Now()
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO products (id, name, description, category, price)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				description = excluded.description,
				category = excluded.category,
				price = excluded.price`)
		if err != nil {
			return fmt.Errorf("prepare product insert: %w", err)
		}
		defer closeWithLog(stmt, "prepared statement")

		for i := range products {
			p := &products[i]
			if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Description, p.Category, p.Price); err != nil {
				return fmt.Errorf("insert product %d: %w", p.ID, err)
			}
		}
		return nil
	})
	metrics.RecordDBQuery("insert", "products", time.Since(start), err)
	return err
}

// InsertOrders inserts orders and their lines in one transaction.
func (db *DB) InsertOrders(ctx context.Context, orders []models.Order) error {
	start := time.Now()
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		orderStmt, err := tx.PrepareContext(ctx,
			`INSERT INTO orders (id, user_id, status, created_at) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare order insert: %w", err)
		}
		defer closeWithLog(orderStmt, "prepared statement")

		itemStmt, err := tx.PrepareContext(ctx,
			`INSERT INTO order_items (order_id, product_id, product_name, quantity, price) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare order item insert: %w", err)
		}
		defer closeWithLog(itemStmt, "prepared statement")

		for i := range orders {
			o := &orders[i]
			if _, err := orderStmt.ExecContext(ctx, o.ID, o.UserID, o.Status, o.CreatedAt); err != nil {
				return fmt.Errorf("insert order %d: %w", o.ID, err)
			}
			for _, it := range o.Items {
				qty := it.Quantity
				if qty < 1 {
					qty = 1
				}
				if _, err := itemStmt.ExecContext(ctx, o.ID, it.ProductID, it.ProductName, qty, it.Price); err != nil {
					return fmt.Errorf("insert order %d line: %w", o.ID, err)
				}
			}
		}
		return nil
	})
	metrics.RecordDBQuery("insert", "orders", time.Since(start), err)
	return err
}

// InsertInteractions records storefront events in one transaction.
func (db *DB) InsertInteractions(ctx context.Context, interactions []models.UserInteraction) error {
	start := time.Now()
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO user_interactions (user_id, product_id, interaction_type, rating, quantity, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare interaction insert: %w", err)
		}
		defer closeWithLog(stmt, "prepared statement")

		for i := range interactions {
			in := &interactions[i]
			var rating sql.NullFloat64
			if in.Rating != nil {
				rating = sql.NullFloat64{Float64: *in.Rating, Valid: true}
			}
			qty := in.Quantity
			if qty < 1 {
				qty = 1
			}
			createdAt := in.CreatedAt
			if createdAt.IsZero() {
				createdAt = time.Now().UTC()
			}
			if _, err := stmt.ExecContext(ctx, in.UserID, in.ProductID, in.Type, rating, qty, createdAt); err != nil {
				return fmt.Errorf("insert interaction: %w", err)
			}
		}
		return nil
	})
	metrics.RecordDBQuery("insert", "user_interactions", time.Since(start), err)
	return err
}

// CountRows returns the row count of each shop table.
func (db *DB) CountRows(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	counts := make(map[string]int64, 4)
	for _, table := range []string{"products", "orders", "order_items", "user_interactions"} {
		var n int64
		// Table names come from the fixed list above.
		if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// withTx runs fn in a transaction and commits when it returns nil. Bulk
// loads can be long, so no default timeout is applied.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if db.conn == nil {
		return ErrDatabaseClosed
	}
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
