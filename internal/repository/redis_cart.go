package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"
)

// CartTTL : un panier inactif expire au bout de 30 jours.
const CartTTL = 30 * 24 * time.Hour

// RedisCart stocke chaque panier comme un document JSON sous cart:<user_id> (CART_BACKEND=redis).
type RedisCart struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCart(rdb *redis.Client) *RedisCart {
	return &RedisCart{rdb: rdb, ttl: CartTTL}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

func (r *RedisCart) load(ctx context.Context, userID string) ([]models.CartItem, error) {
	data, err := r.rdb.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("décodage panier %s: %w", userID, err)
	}
	return items, nil
}

func (r *RedisCart) store(ctx context.Context, userID string, items []models.CartItem) error {
	if len(items) == 0 {
		return r.rdb.Del(ctx, cartKey(userID)).Err()
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, cartKey(userID), data, r.ttl).Err()
}

func (r *RedisCart) ListItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	return r.load(ctx, userID)
}

func (r *RedisCart) GetItem(ctx context.Context, userID string, itemID gocql.UUID) (models.CartItem, error) {
	return r.find(ctx, userID, func(it models.CartItem) bool { return it.ID == itemID })
}

func (r *RedisCart) FindByProduct(ctx context.Context, userID string, productID gocql.UUID) (models.CartItem, error) {
	return r.find(ctx, userID, func(it models.CartItem) bool { return it.ProductID == productID })
}

func (r *RedisCart) find(ctx context.Context, userID string, match func(models.CartItem) bool) (models.CartItem, error) {
	items, err := r.load(ctx, userID)
	if err != nil {
		return models.CartItem{}, err
	}
	for _, it := range items {
		if match(it) {
			return it, nil
		}
	}
	return models.CartItem{}, apperr.ErrRecordNotFound
}

func (r *RedisCart) SaveItem(ctx context.Context, item models.CartItem) error {
	items, err := r.load(ctx, item.UserID)
	if err != nil {
		return err
	}
	replaced := false
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, item)
	}
	return r.store(ctx, item.UserID, items)
}

func (r *RedisCart) DeleteItem(ctx context.Context, userID string, itemID gocql.UUID) error {
	items, err := r.load(ctx, userID)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	return r.store(ctx, userID, kept)
}

func (r *RedisCart) ClearItems(ctx context.Context, userID string) error {
	return r.rdb.Del(ctx, cartKey(userID)).Err()
}
