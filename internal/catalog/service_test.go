package catalog

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/repository"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

type fakeIndex struct {
	indexed map[gocql.UUID]string
	results []gocql.UUID
}

func (f *fakeIndex) IndexProduct(_ context.Context, p models.Product) error {
	if f.indexed == nil {
		f.indexed = map[gocql.UUID]string{}
	}
	f.indexed[p.ID] = p.Name
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id gocql.UUID) error {
	delete(f.indexed, id)
	return nil
}

func (f *fakeIndex) SearchProducts(context.Context, string) ([]gocql.UUID, error) {
	return f.results, nil
}

type fakeImages struct {
	key  string
	body string
}

func (f *fakeImages) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.key, f.body = key, string(b)
	return "http://minio:9000/storefront-images/" + key, nil
}

func (f *fakeImages) SignedURL(_ context.Context, imageURL string, ttl time.Duration) (string, error) {
	return imageURL + "?X-Amz-Expires=" + ttl.String(), nil
}

func newService(t *testing.T, opts Options) (*Service, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	opts.Clock = func() time.Time { return now }
	return NewService(store, opts), store
}

func seed(t *testing.T, store *repository.MemoryStore, name, price string, cat *gocql.UUID) models.Product {
	t.Helper()
	p := models.Product{ID: gocql.TimeUUID(), Name: name, Price: decimal.RequireFromString(price), CategoryID: cat}
	require.NoError(t, store.SaveProduct(context.Background(), p))
	return p
}

func TestShop_PricesAndSortsByName(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, Options{})

	tomate := seed(t, store, "tomate", "100", nil)
	seed(t, store, "Ail", "2.50", nil)
	require.NoError(t, store.SaveDiscount(ctx, models.Discount{
		ID: gocql.TimeUUID(), ProductID: tomate.ID, Value: decimal.NewFromInt(20),
		DateBegin: now.Add(-time.Hour), DateEnd: now.Add(time.Hour),
	}))

	products, err := svc.Shop(ctx, "")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Ail", products[0].Name)
	assert.Equal(t, "2.50", products[0].PriceAfter.StringFixed(2))
	assert.Equal(t, "tomate", products[1].Name)
	assert.Equal(t, "100.00", products[1].PriceBefore.StringFixed(2))
	assert.Equal(t, "80.00", products[1].PriceAfter.StringFixed(2))
	assert.True(t, products[1].DiscountValue.Equal(decimal.NewFromInt(20)))
}

func TestShop_CategoryFilter(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, Options{})

	cat, err := svc.CreateCategory(ctx, "Fruits")
	require.NoError(t, err)
	seed(t, store, "Pomme", "1", &cat.ID)
	seed(t, store, "Savon", "3", nil)

	products, err := svc.Shop(ctx, cat.ID.String())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Pomme", products[0].Name)

	_, err = svc.Shop(ctx, "fruits")
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestProduct(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, Options{})
	p := seed(t, store, "Miel", "7", nil)

	got, err := svc.Product(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = svc.Product(ctx, "abc")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Product(ctx, gocql.TimeUUID().String())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("without index filters by name", func(t *testing.T) {
		svc, store := newService(t, Options{})
		seed(t, store, "Confiture de fraise", "4", nil)
		seed(t, store, "Pain", "1", nil)

		res, err := svc.Search(ctx, "FRAISE")
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "Confiture de fraise", res[0].Name)
	})

	t.Run("with index skips ids missing from the store", func(t *testing.T) {
		idx := &fakeIndex{}
		svc, store := newService(t, Options{Index: idx})
		p := seed(t, store, "Pain", "1", nil)
		idx.results = []gocql.UUID{gocql.TimeUUID(), p.ID}

		res, err := svc.Search(ctx, "pain")
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, p.ID, res[0].ID)
	})

	t.Run("empty query", func(t *testing.T) {
		svc, _ := newService(t, Options{})
		_, err := svc.Search(ctx, "  ")
		assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	})
}

func TestProductLifecycle_KeepsIndexInSync(t *testing.T) {
	ctx := context.Background()
	idx := &fakeIndex{}
	svc, _ := newService(t, Options{Index: idx})

	_, err := svc.CreateProduct(ctx, models.ProductInput{Name: " ", Price: decimal.NewFromInt(1)})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	_, err = svc.CreateProduct(ctx, models.ProductInput{Name: "Sel", Price: decimal.NewFromInt(-1)})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	_, err = svc.CreateProduct(ctx, models.ProductInput{Name: "Sel", Price: decimal.NewFromInt(1), CategoryID: gocql.TimeUUID().String()})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	p, err := svc.CreateProduct(ctx, models.ProductInput{Name: "Sel", Price: decimal.RequireFromString("1.499")})
	require.NoError(t, err)
	assert.Equal(t, "1.50", p.Price.StringFixed(2))
	assert.Equal(t, "Sel", idx.indexed[p.ID])

	p, err = svc.UpdateProduct(ctx, p.ID.String(), models.ProductInput{Name: "Sel de Guérande", Price: decimal.NewFromInt(3)})
	require.NoError(t, err)
	assert.Equal(t, "Sel de Guérande", idx.indexed[p.ID])
	assert.True(t, now.Equal(p.UpdatedAt))

	require.NoError(t, svc.DeleteProduct(ctx, p.ID.String()))
	assert.NotContains(t, idx.indexed, p.ID)

	err = svc.DeleteProduct(ctx, p.ID.String())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, Options{})

	_, err := svc.CreateCategory(ctx, "")
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	legumes, err := svc.CreateCategory(ctx, "Légumes")
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, "Boissons")
	require.NoError(t, err)
	seed(t, store, "Poireau", "2", &legumes.ID)
	seed(t, store, "Carotte", "1", &legumes.ID)

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Boissons", cats[0].Name)
	assert.Equal(t, []string{}, cats[0].Products)
	assert.Equal(t, []string{"Carotte", "Poireau"}, cats[1].Products)
}

func TestAttachImageAndImageLink(t *testing.T) {
	ctx := context.Background()
	images := &fakeImages{}
	svc, store := newService(t, Options{Images: images})
	p := seed(t, store, "Olive", "6", nil)

	_, err := svc.ImageLink(ctx, p.ID.String())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.AttachImage(ctx, p.ID.String(), "notes.txt", strings.NewReader("x"), 1, "text/plain")
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	updated, err := svc.AttachImage(ctx, p.ID.String(), "Olive.PNG", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(images.key, "products/"+p.ID.String()+"/"))
	assert.True(t, strings.HasSuffix(images.key, ".png"))
	assert.Equal(t, "png", images.body)
	assert.Equal(t, "http://minio:9000/storefront-images/"+images.key, updated.ImageURL)

	link, err := svc.ImageLink(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, updated.ImageURL+"?X-Amz-Expires=15m0s", link)
}

func TestAttachImage_WithoutStore(t *testing.T) {
	svc, store := newService(t, Options{})
	p := seed(t, store, "Olive", "6", nil)

	_, err := svc.AttachImage(context.Background(), p.ID.String(), "a.png", strings.NewReader(""), 0, "image/png")
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestDiscounts(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, Options{})
	p := seed(t, store, "Vin", "20", nil)

	_, err := svc.CreateDiscount(ctx, p.ID.String(), DiscountInput{Value: decimal.NewFromInt(120), DateBegin: now, DateEnd: now})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	_, err = svc.CreateDiscount(ctx, p.ID.String(), DiscountInput{Value: decimal.NewFromInt(10), DateBegin: now, DateEnd: now.Add(-time.Hour)})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	later, err := svc.CreateDiscount(ctx, p.ID.String(), DiscountInput{Value: decimal.NewFromInt(10), DateBegin: now.Add(time.Hour), DateEnd: now.Add(2 * time.Hour)})
	require.NoError(t, err)
	current, err := svc.CreateDiscount(ctx, p.ID.String(), DiscountInput{Value: decimal.NewFromInt(25), DateBegin: now.Add(-time.Hour), DateEnd: now.Add(time.Hour)})
	require.NoError(t, err)

	ds, err := svc.Discounts(ctx, p.ID.String())
	require.NoError(t, err)
	require.Len(t, ds, 2)
	assert.Equal(t, current.ID, ds[0].ID)
	assert.Equal(t, later.ID, ds[1].ID)

	priced, err := svc.Product(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "15.00", priced.PriceAfter.StringFixed(2))

	require.NoError(t, svc.DeleteDiscount(ctx, p.ID.String(), current.ID.String()))
	err = svc.DeleteDiscount(ctx, p.ID.String(), current.ID.String())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	priced, err = svc.Product(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "20.00", priced.PriceAfter.StringFixed(2))
}
