package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter compte les requêtes par fenêtre fixe dans Redis.
type RateLimiter struct {
	rdb *redis.Client
}

func NewRateLimiter(rdb *redis.Client) *RateLimiter {
	return &RateLimiter{rdb: rdb}
}

// Allow incrémente le compteur de key et indique si limit est encore respectée.
// retryAfter est le temps restant avant la fin de la fenêtre.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	key = "rate_limit:" + key

	count, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		return true, 0, err
	}
	if count == 1 {
		if err := r.rdb.Expire(ctx, key, window).Err(); err != nil {
			return true, 0, err
		}
	}

	retryAfter, err := r.rdb.TTL(ctx, key).Result()
	if err != nil || retryAfter < 0 {
		retryAfter = window
	}
	return count <= int64(limit), retryAfter, nil
}
