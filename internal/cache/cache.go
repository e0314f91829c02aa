package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"storefront_back_end/internal/catalog"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/wishlist"

	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ProductCacheTTL  = 10 * time.Minute
	WishlistCacheTTL = 10 * time.Minute
)

func productKey(id gocql.UUID) string   { return "product:" + id.String() }
func discountsKey(id gocql.UUID) string { return "discounts:" + id.String() }
func wishlistKey(userID string) string  { return "wishlist:" + userID }

// getJSON renvoie false sur absence ou erreur Redis ; l'appelant lit alors la base.
func getJSON(ctx context.Context, rdb *redis.Client, log *zap.Logger, key string, dest interface{}) bool {
	data, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn("⚠️ Lecture cache Redis", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func setJSON(ctx context.Context, rdb *redis.Client, log *zap.Logger, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Warn("⚠️ Écriture cache Redis", zap.String("key", key), zap.Error(err))
	}
}

func invalidate(ctx context.Context, rdb *redis.Client, log *zap.Logger, keys ...string) {
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn("⚠️ Invalidation cache Redis", zap.Strings("keys", keys), zap.Error(err))
	}
}

// Catalog met en cache les produits et leurs réductions devant le dépôt catalogue.
type Catalog struct {
	catalog.Repository
	rdb *redis.Client
	log *zap.Logger
}

func NewCatalog(repo catalog.Repository, rdb *redis.Client, log *zap.Logger) *Catalog {
	return &Catalog{Repository: repo, rdb: rdb, log: log}
}

func (c *Catalog) GetProduct(ctx context.Context, id gocql.UUID) (models.Product, error) {
	var p models.Product
	if getJSON(ctx, c.rdb, c.log, productKey(id), &p) {
		return p, nil
	}
	p, err := c.Repository.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	setJSON(ctx, c.rdb, c.log, productKey(id), p, ProductCacheTTL)
	return p, nil
}

func (c *Catalog) SaveProduct(ctx context.Context, p models.Product) error {
	if err := c.Repository.SaveProduct(ctx, p); err != nil {
		return err
	}
	invalidate(ctx, c.rdb, c.log, productKey(p.ID))
	return nil
}

func (c *Catalog) DeleteProduct(ctx context.Context, id gocql.UUID) error {
	if err := c.Repository.DeleteProduct(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, c.rdb, c.log, productKey(id), discountsKey(id))
	return nil
}

// ListDiscounts met en cache les lignes brutes ; la fenêtre active est évaluée à chaque lecture.
func (c *Catalog) ListDiscounts(ctx context.Context, productID gocql.UUID) ([]models.Discount, error) {
	var ds []models.Discount
	if getJSON(ctx, c.rdb, c.log, discountsKey(productID), &ds) {
		return ds, nil
	}
	ds, err := c.Repository.ListDiscounts(ctx, productID)
	if err != nil {
		return nil, err
	}
	setJSON(ctx, c.rdb, c.log, discountsKey(productID), ds, ProductCacheTTL)
	return ds, nil
}

func (c *Catalog) SaveDiscount(ctx context.Context, d models.Discount) error {
	if err := c.Repository.SaveDiscount(ctx, d); err != nil {
		return err
	}
	invalidate(ctx, c.rdb, c.log, discountsKey(d.ProductID))
	return nil
}

func (c *Catalog) DeleteDiscount(ctx context.Context, productID, discountID gocql.UUID) error {
	if err := c.Repository.DeleteDiscount(ctx, productID, discountID); err != nil {
		return err
	}
	invalidate(ctx, c.rdb, c.log, discountsKey(productID))
	return nil
}

// Wishlist met en cache la liste des product_id de chaque utilisateur.
type Wishlist struct {
	wishlist.Repository
	rdb *redis.Client
	log *zap.Logger
}

func NewWishlist(repo wishlist.Repository, rdb *redis.Client, log *zap.Logger) *Wishlist {
	return &Wishlist{Repository: repo, rdb: rdb, log: log}
}

func (w *Wishlist) ListProductIDs(ctx context.Context, userID string) ([]gocql.UUID, error) {
	var ids []gocql.UUID
	if getJSON(ctx, w.rdb, w.log, wishlistKey(userID), &ids) {
		return ids, nil
	}
	ids, err := w.Repository.ListProductIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	setJSON(ctx, w.rdb, w.log, wishlistKey(userID), ids, WishlistCacheTTL)
	return ids, nil
}

func (w *Wishlist) AddItem(ctx context.Context, item models.WishlistItem) error {
	if err := w.Repository.AddItem(ctx, item); err != nil {
		return err
	}
	invalidate(ctx, w.rdb, w.log, wishlistKey(item.UserID))
	return nil
}

func (w *Wishlist) RemoveItem(ctx context.Context, userID string, productID gocql.UUID) error {
	if err := w.Repository.RemoveItem(ctx, userID, productID); err != nil {
		return err
	}
	invalidate(ctx, w.rdb, w.log, wishlistKey(userID))
	return nil
}
