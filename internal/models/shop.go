// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package models

import (
	"time"
)

// Product is a catalogue entry.
type Product struct {
	ID          int64   `json:"product_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price,omitempty"`
}

// Order is a customer order with its lines.
type Order struct {
	ID        int64       `json:"order_id"`
	UserID    int64       `json:"user_id"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderItem `json:"items"`
}

// OrderItem is one order line.
type OrderItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// UserInteraction is a tracked event from the storefront.
type UserInteraction struct {
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	Type      string    `json:"interaction_type"` // view, add_to_cart, purchase, rating
	Rating    *float64  `json:"rating"`           // nil unless rated
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// PopularProduct is a product ranked by non-cancelled order volume.
type PopularProduct struct {
	ProductID     int64  `json:"product_id"`
	Name          string `json:"name"`
	OrderCount    int64  `json:"order_count"`
	TotalQuantity int64  `json:"total_quantity"`
}

// PurchaseRecord is one line of a user's purchase history.
type PurchaseRecord struct {
	ProductID    int64     `json:"product_id"`
	Name         string    `json:"name"`
	Quantity     int       `json:"quantity"`
	Price        float64   `json:"price"`
	PurchaseDate time.Time `json:"purchase_date"`
}
