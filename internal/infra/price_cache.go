package infra

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const priceKeyPrefix = "price:"

// ErrPriceCacheMiss is returned when no cached price exists for the product.
var ErrPriceCacheMiss = errors.New("price cache miss")

// PriceCache is a short-TTL Redis cache for product prices. It serves the
// public catalog endpoint only; sale totals always snapshot the price read
// from the database in the same transaction, never a cached value.
type PriceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPriceCache(rdb *redis.Client, ttl time.Duration) *PriceCache {
	return &PriceCache{rdb: rdb, ttl: ttl}
}

func (c *PriceCache) Get(ctx context.Context, productID string) (decimal.Decimal, error) {
	val, err := c.rdb.Get(ctx, priceKeyPrefix+productID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return decimal.Zero, ErrPriceCacheMiss
		}
		return decimal.Zero, err
	}
	return decimal.NewFromString(val)
}

func (c *PriceCache) Set(ctx context.Context, productID string, price decimal.Decimal) error {
	return c.rdb.Set(ctx, priceKeyPrefix+productID, price.String(), c.ttl).Err()
}

// Invalidate drops the cached price after a catalog update.
func (c *PriceCache) Invalidate(ctx context.Context, productID string) error {
	return c.rdb.Del(ctx, priceKeyPrefix+productID).Err()
}
