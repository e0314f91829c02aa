// Package pricing calcule le prix effectif d'un produit selon ses réductions actives.
package pricing

import (
	"time"

	"storefront_back_end/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Quote est le résultat du calcul pour un produit.
type Quote struct {
	PriceBefore   decimal.Decimal
	PriceAfter    decimal.Decimal
	DiscountValue decimal.Decimal
}

// ActiveDiscount choisit, parmi les réductions actives à now, celle de plus forte valeur.
func ActiveDiscount(discounts []models.Discount, now time.Time) (models.Discount, bool) {
	var (
		best  models.Discount
		found bool
	)
	for _, d := range discounts {
		if !d.ActiveAt(now) || d.Value.IsNegative() {
			continue
		}
		if !found || d.Value.GreaterThan(best.Value) {
			best = d
			found = true
		}
	}
	return best, found
}

// Price applique price × (100 − valeur) / 100, arrondi à deux décimales.
// La valeur est bornée à [0, 100] pour que le prix ne devienne jamais négatif.
func Price(p models.Product, discounts []models.Discount, now time.Time) Quote {
	value := decimal.Zero
	if d, ok := ActiveDiscount(discounts, now); ok {
		value = d.Value
	}
	if value.GreaterThan(hundred) {
		value = hundred
	}
	if value.IsNegative() {
		value = decimal.Zero
	}

	after := p.Price.Mul(hundred.Sub(value)).Div(hundred).RoundBank(2)

	return Quote{
		PriceBefore:   p.Price,
		PriceAfter:    after,
		DiscountValue: value,
	}
}

// Apply renvoie le produit enrichi de son prix effectif.
func Apply(p models.Product, discounts []models.Discount, now time.Time) models.PricedProduct {
	q := Price(p, discounts, now)
	return models.PricedProduct{
		Product:       p,
		PriceBefore:   q.PriceBefore,
		PriceAfter:    q.PriceAfter,
		DiscountValue: q.DiscountValue,
	}
}
