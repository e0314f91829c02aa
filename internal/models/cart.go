package models

import (
	"time"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"
)

// CartItem est une ligne de panier ; (UserID, ProductID) est unique.
type CartItem struct {
	ID        gocql.UUID `json:"id"`
	UserID    string     `json:"user_id"`
	ProductID gocql.UUID `json:"product_id"`
	Quantity  int        `json:"quantity"`
	AddedAt   time.Time  `json:"added_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartLine struct {
	CartItem
	Product   PricedProduct   `json:"product"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type Cart struct {
	UserID string          `json:"user_id"`
	Items  []CartLine      `json:"items"`
	Total  decimal.Decimal `json:"total"`
	Count  int             `json:"count"`
}
