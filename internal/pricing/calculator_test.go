package pricing

import (
	"testing"
	"time"

	"storefront_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func product(price string) models.Product {
	return models.Product{ID: gocql.TimeUUID(), Name: "Tomate", Price: decimal.RequireFromString(price)}
}

func discount(value string, begin, end time.Time) models.Discount {
	return models.Discount{
		ID:        gocql.TimeUUID(),
		Value:     decimal.RequireFromString(value),
		DateBegin: begin,
		DateEnd:   end,
	}
}

func TestPrice(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	t.Run("active discount 20 on 100 -> 80", func(t *testing.T) {
		q := Price(product("100"), []models.Discount{discount("20", now.Add(-day), now.Add(day))}, now)
		assert.True(t, q.PriceBefore.Equal(decimal.NewFromInt(100)))
		assert.True(t, q.PriceAfter.Equal(decimal.NewFromInt(80)), "got %s", q.PriceAfter)
		assert.True(t, q.DiscountValue.Equal(decimal.NewFromInt(20)))
	})

	t.Run("no discount -> raw price", func(t *testing.T) {
		q := Price(product("100"), nil, now)
		assert.True(t, q.PriceAfter.Equal(decimal.NewFromInt(100)))
		assert.True(t, q.DiscountValue.IsZero())
	})

	t.Run("expired window -> raw price", func(t *testing.T) {
		q := Price(product("100"), []models.Discount{discount("20", now.Add(-2*day), now.Add(-day))}, now)
		assert.True(t, q.PriceAfter.Equal(decimal.NewFromInt(100)))
		assert.True(t, q.DiscountValue.IsZero())
	})

	t.Run("future window -> raw price", func(t *testing.T) {
		q := Price(product("100"), []models.Discount{discount("20", now.Add(day), now.Add(2*day))}, now)
		assert.True(t, q.PriceAfter.Equal(decimal.NewFromInt(100)))
	})

	t.Run("window bounds are inclusive", func(t *testing.T) {
		q := Price(product("100"), []models.Discount{discount("10", now, now)}, now)
		assert.True(t, q.PriceAfter.Equal(decimal.NewFromInt(90)))
	})

	t.Run("negative value is ignored", func(t *testing.T) {
		q := Price(product("100"), []models.Discount{discount("-5", now.Add(-day), now.Add(day))}, now)
		assert.True(t, q.PriceAfter.Equal(decimal.NewFromInt(100)))
	})

	t.Run("value above 100 clamps to zero price", func(t *testing.T) {
		q := Price(product("100"), []models.Discount{discount("150", now.Add(-day), now.Add(day))}, now)
		assert.True(t, q.PriceAfter.IsZero(), "got %s", q.PriceAfter)
	})

	t.Run("highest active discount wins", func(t *testing.T) {
		ds := []models.Discount{
			discount("10", now.Add(-day), now.Add(day)),
			discount("30", now.Add(-day), now.Add(day)),
			discount("50", now.Add(-3*day), now.Add(-2*day)),
		}
		q := Price(product("120"), ds, now)
		assert.True(t, q.PriceAfter.Equal(decimal.NewFromInt(84)), "got %s", q.PriceAfter)
	})

	t.Run("rounds to cents", func(t *testing.T) {
		q := Price(product("10.99"), []models.Discount{discount("15", now.Add(-day), now.Add(day))}, now)
		assert.Equal(t, "9.34", q.PriceAfter.StringFixed(2))
	})
}

func TestApply(t *testing.T) {
	now := time.Now()
	p := product("50")
	pp := Apply(p, []models.Discount{discount("50", now.Add(-time.Hour), now.Add(time.Hour))}, now)
	assert.Equal(t, p.ID, pp.ID)
	assert.True(t, pp.PriceAfter.Equal(decimal.NewFromInt(25)))
}
