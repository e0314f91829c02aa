package models

import (
	"time"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"
)

// Discount est une réduction en pourcentage valable sur [DateBegin, DateEnd].
type Discount struct {
	ID        gocql.UUID      `json:"id"`
	ProductID gocql.UUID      `json:"product_id"`
	Value     decimal.Decimal `json:"value"`
	DateBegin time.Time       `json:"date_begin"`
	DateEnd   time.Time       `json:"date_end"`
}

// ActiveAt indique si la réduction s'applique à l'instant now (bornes incluses).
func (d Discount) ActiveAt(now time.Time) bool {
	if d.Value.IsNegative() {
		return false
	}
	return !now.Before(d.DateBegin) && !now.After(d.DateEnd)
}
