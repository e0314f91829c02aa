package models

import (
	"time"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          gocql.UUID      `json:"id" db:"product_id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	ImageURL    string          `json:"image,omitempty" db:"image_url"`
	CategoryID  *gocql.UUID     `json:"category_id,omitempty" db:"category_id"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// PricedProduct est un produit accompagné de son prix effectif à un instant donné.
type PricedProduct struct {
	Product
	PriceBefore   decimal.Decimal `json:"price_before"`
	PriceAfter    decimal.Decimal `json:"price_after"`
	DiscountValue decimal.Decimal `json:"discount_value"`
}

// ProductInput regroupe les champs modifiables d'un produit (admin).
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"category_id"`
}
