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
	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

// Order lines are rated 5.0, raised 10% per extra unit and clipped to 5.
const orderInteractionsQuery = `
	SELECT
		o.user_id,
		oi.product_id,
		CAST(LEAST(5.0 * (1.0 + 0.1 * (oi.quantity - 1)), 5.0) AS DOUBLE) AS rating,
		o.created_at
	FROM orders o
	JOIN order_items oi ON oi.order_id = o.id
	WHERE o.status <> 'CANCELLED'
	ORDER BY o.created_at DESC, o.id, oi.product_id`

// Tracked events are weighted by type. Purchases fall back to 5.0 when
// unrated and scale with quantity like order lines. A rating event with a
// NULL rating stays NULL and is loaded as an implicit interaction.
const userInteractionsQuery = `
	SELECT
		user_id,
		product_id,
		CAST(CASE interaction_type
			WHEN 'purchase' THEN LEAST(COALESCE(rating, 5.0) * (1.0 + 0.1 * (quantity - 1)), 5.0)
			WHEN 'rating' THEN CASE WHEN rating IS NULL THEN NULL ELSE LEAST(rating, 5.0) END
			WHEN 'add_to_cart' THEN 4.0
			WHEN 'view' THEN 2.5
			ELSE 3.0
		END AS DOUBLE) AS rating,
		created_at
	FROM user_interactions
	ORDER BY created_at DESC, id`

// LoadOrderInteractions returns one interaction per non-cancelled order
// line, newest first.
func (db *DB) LoadOrderInteractions(ctx context.Context) ([]recommend.Interaction, error) {
	return db.queryInteractions(ctx, "orders", orderInteractionsQuery)
}

// LoadUserInteractions returns weighted storefront events, newest first.
func (db *DB) LoadUserInteractions(ctx context.Context) ([]recommend.Interaction, error) {
	return db.queryInteractions(ctx, "user_interactions", userInteractionsQuery)
}

// LoadAllInteractions merges order lines and tracked events. Order lines
// come first and only the first interaction of each (user, product) pair
// is kept, so a purchase always wins over a view of the same product.
func (db *DB) LoadAllInteractions(ctx context.Context) ([]recommend.Interaction, error) {
	orders, err := db.LoadOrderInteractions(ctx)
	if err != nil {
		return nil, err
	}
	events, err := db.LoadUserInteractions(ctx)
	if err != nil {
		return nil, err
	}
	return mergeInteractions(orders, events), nil
}

type pairKey struct {
	user, item int64
}

func mergeInteractions(sources ...[]recommend.Interaction) []recommend.Interaction {
	total := 0
	for _, s := range sources {
		total += len(s)
	}
	seen := make(map[pairKey]struct{}, total)
	out := make([]recommend.Interaction, 0, total)
	for _, s := range sources {
		for _, in := range s {
			u, _ := in.UserID.Int()
			p, _ := in.ItemID.Int()
			k := pairKey{user: u, item: p}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, in)
		}
	}
	return out
}

func (db *DB) queryInteractions(ctx context.Context, table, query string) ([]recommend.Interaction, error) {
	if db.conn == nil {
		return nil, ErrDatabaseClosed
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	out, err := scanInteractions(ctx, db.conn, query)
	metrics.RecordDBQuery("select", table, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("load %s interactions: %w", table, err)
	}
	return out, nil
}

func scanInteractions(ctx context.Context, conn *sql.DB, query string) ([]recommend.Interaction, error) {
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)

	var out []recommend.Interaction
	for rows.Next() {
		var (
			userID, productID int64
			rating            sql.NullFloat64
			createdAt         sql.NullTime
		)
		if err := rows.Scan(&userID, &productID, &rating, &createdAt); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		in := recommend.Interaction{
			UserID:   recommend.Numeric(userID),
			ItemID:   recommend.Numeric(productID),
			Rating:   rating.Float64,
			Implicit: !rating.Valid,
		}
		if createdAt.Valid {
			in.Timestamp = createdAt.Time
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// GetProducts returns the catalogue as content metadata, ordered by id.
func (db *DB) GetProducts(ctx context.Context) ([]recommend.Item, error) {
	if db.conn == nil {
		return nil, ErrDatabaseClosed
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	items, err := db.scanProducts(ctx)
	metrics.RecordDBQuery("select", "products", time.Since(start), err)
	return items, err
}

func (db *DB) scanProducts(ctx context.Context) ([]recommend.Item, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, ''), COALESCE(category, '')
		FROM products
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer closeQuietly(rows)

	var items []recommend.Item
	for rows.Next() {
		var (
			id   int64
			item recommend.Item
		)
		if err := rows.Scan(&id, &item.Name, &item.Description, &item.Category); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		item.ID = recommend.Numeric(id)
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetPopularProducts ranks products by the number of non-cancelled order
// lines, then by total quantity.
func (db *DB) GetPopularProducts(ctx context.Context, limit int) ([]models.PopularProduct, error) {
	if db.conn == nil {
		return nil, ErrDatabaseClosed
	}
	if limit <= 0 {
		return []models.PopularProduct{}, nil
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	out, err := db.scanPopular(ctx, limit)
	metrics.RecordDBQuery("select", "order_items", time.Since(start), err)
	return out, err
}

func (db *DB) scanPopular(ctx context.Context, limit int) ([]models.PopularProduct, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT
			oi.product_id,
			COALESCE(NULLIF(MAX(oi.product_name), ''), MAX(p.name), '') AS name,
			COUNT(*) AS order_count,
			CAST(SUM(oi.quantity) AS BIGINT) AS total_quantity
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE o.status <> 'CANCELLED'
		GROUP BY oi.product_id
		ORDER BY order_count DESC, total_quantity DESC, oi.product_id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query popular products: %w", err)
	}
	defer closeQuietly(rows)

	out := make([]models.PopularProduct, 0, limit)
	for rows.Next() {
		var p models.PopularProduct
		if err := rows.Scan(&p.ProductID, &p.Name, &p.OrderCount, &p.TotalQuantity); err != nil {
			return nil, fmt.Errorf("scan popular product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetUserHistory returns up to limit of the user's non-cancelled purchase
// lines, newest first, and the total number of such lines.
func (db *DB) GetUserHistory(ctx context.Context, userID int64, limit int) ([]models.PurchaseRecord, int, error) {
	if db.conn == nil {
		return nil, 0, ErrDatabaseClosed
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	out, total, err := db.scanHistory(ctx, userID, limit)
	metrics.RecordDBQuery("select", "orders", time.Since(start), err)
	return out, total, err
}

func (db *DB) scanHistory(ctx context.Context, userID int64, limit int) ([]models.PurchaseRecord, int, error) {
	var total int
	if err := db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.user_id = ? AND o.status <> 'CANCELLED'`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}
	if total == 0 || limit <= 0 {
		return []models.PurchaseRecord{}, total, nil
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT
			oi.product_id,
			COALESCE(NULLIF(oi.product_name, ''), p.name, '') AS name,
			oi.quantity,
			COALESCE(oi.price, 0.0) AS price,
			o.created_at
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE o.user_id = ? AND o.status <> 'CANCELLED'
		ORDER BY o.created_at DESC, o.id, oi.product_id
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query purchases: %w", err)
	}
	defer closeQuietly(rows)

	out := make([]models.PurchaseRecord, 0, min(limit, total))
	for rows.Next() {
		var r models.PurchaseRecord
		if err := rows.Scan(&r.ProductID, &r.Name, &r.Quantity, &r.Price, &r.PurchaseDate); err != nil {
			return nil, 0, fmt.Errorf("scan purchase: %w", err)
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}
