package cart

import (
	"context"
	"testing"
	"time"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/catalog"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/repository"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = models.Caller{UserID: "alice", Role: models.RoleCustomer}

func setup(t *testing.T) (*Service, *repository.MemoryStore, models.Product) {
	t.Helper()
	store := repository.NewMemoryStore()
	p := models.Product{ID: gocql.TimeUUID(), Name: "Café", Price: decimal.RequireFromString("10.00")}
	require.NoError(t, store.SaveProduct(context.Background(), p))
	return NewService(store, catalog.NewService(store, catalog.Options{})), store, p
}

func qty(n int) *int { return &n }

func TestAdd_DefaultsToOneAndAccumulates(t *testing.T) {
	ctx := context.Background()
	svc, _, p := setup(t)

	first, err := svc.Add(ctx, alice, p.ID.String(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Quantity)

	second, err := svc.Add(ctx, alice, p.ID.String(), nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same line is reused")
	assert.Equal(t, 2, second.Quantity)

	third, err := svc.Add(ctx, alice, p.ID.String(), qty(3))
	require.NoError(t, err)
	assert.Equal(t, 5, third.Quantity)

	cart, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Count)
	assert.Equal(t, "50.00", cart.Total.StringFixed(2))
}

func TestAdd_ExplicitQuantitiesSum(t *testing.T) {
	ctx := context.Background()
	svc, store, p := setup(t)

	first, err := svc.Add(ctx, alice, p.ID.String(), qty(3))
	require.NoError(t, err)
	assert.Equal(t, 3, first.Quantity)

	second, err := svc.Add(ctx, alice, p.ID.String(), qty(2))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	items, err := store.ListItems(ctx, alice.UserID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAdd_ZeroQuantityMeansOne(t *testing.T) {
	svc, _, p := setup(t)
	item, err := svc.Add(context.Background(), alice, p.ID.String(), qty(0))
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
}

func TestAdd_Errors(t *testing.T) {
	ctx := context.Background()
	svc, store, p := setup(t)

	tests := []struct {
		name      string
		caller    models.Caller
		productID string
		quantity  *int
		kind      apperr.Kind
	}{
		{"anonymous", models.Caller{}, p.ID.String(), nil, apperr.KindUnauthenticated},
		{"missing product", alice, "", nil, apperr.KindBadRequest},
		{"malformed product", alice, "nope", nil, apperr.KindBadRequest},
		{"unknown product", alice, gocql.TimeUUID().String(), nil, apperr.KindNotFound},
		{"negative quantity", alice, p.ID.String(), qty(-1), apperr.KindBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(ctx, tt.caller, tt.productID, tt.quantity)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}

	items, err := store.ListItems(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, items, "failed adds leave the cart untouched")
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, store, p := setup(t)
	other := models.Product{ID: gocql.TimeUUID(), Name: "Thé", Price: decimal.NewFromInt(4)}
	require.NoError(t, store.SaveProduct(ctx, other))

	item, err := svc.Add(ctx, alice, p.ID.String(), nil)
	require.NoError(t, err)

	t.Run("sets quantity", func(t *testing.T) {
		updated, err := svc.Update(ctx, alice, item.ID.String(), qty(4), nil)
		require.NoError(t, err)
		assert.Equal(t, 4, updated.Quantity)
	})

	t.Run("rejects quantity below one", func(t *testing.T) {
		_, err := svc.Update(ctx, alice, item.ID.String(), qty(0), nil)
		assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	})

	t.Run("other user's line is not found", func(t *testing.T) {
		_, err := svc.Update(ctx, models.Caller{UserID: "bob"}, item.ID.String(), qty(2), nil)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("switching to a product already in the cart merges lines", func(t *testing.T) {
		otherLine, err := svc.Add(ctx, alice, other.ID.String(), qty(2))
		require.NoError(t, err)

		pid := other.ID.String()
		merged, err := svc.Update(ctx, alice, item.ID.String(), nil, &pid)
		require.NoError(t, err)
		assert.Equal(t, otherLine.ID, merged.ID)
		assert.Equal(t, 6, merged.Quantity)

		items, err := store.ListItems(ctx, "alice")
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})
}

func TestRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	svc, _, p := setup(t)

	item, err := svc.Add(ctx, alice, p.ID.String(), nil)
	require.NoError(t, err)

	err = svc.Remove(ctx, models.Caller{UserID: "bob"}, item.ID.String())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	require.NoError(t, svc.Remove(ctx, alice, item.ID.String()))
	err = svc.Remove(ctx, alice, item.ID.String())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Add(ctx, alice, p.ID.String(), qty(2))
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, alice))

	cart, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total.IsZero())
}

func TestList_UsesDiscountedPriceAndSkipsDeletedProducts(t *testing.T) {
	ctx := context.Background()
	svc, store, p := setup(t)
	gone := models.Product{ID: gocql.TimeUUID(), Name: "Ancien", Price: decimal.NewFromInt(1)}
	require.NoError(t, store.SaveProduct(ctx, gone))

	now := time.Now()
	require.NoError(t, store.SaveDiscount(ctx, models.Discount{
		ID: gocql.TimeUUID(), ProductID: p.ID, Value: decimal.NewFromInt(50),
		DateBegin: now.Add(-time.Hour), DateEnd: now.Add(time.Hour),
	}))

	_, err := svc.Add(ctx, alice, p.ID.String(), qty(2))
	require.NoError(t, err)
	_, err = svc.Add(ctx, alice, gone.ID.String(), nil)
	require.NoError(t, err)
	require.NoError(t, store.DeleteProduct(ctx, gone.ID))

	cart, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "10.00", cart.Total.StringFixed(2))
	assert.Equal(t, 2, cart.Count)
}

func TestList_Anonymous(t *testing.T) {
	svc, _, _ := setup(t)
	_, err := svc.List(context.Background(), models.Caller{})
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}
