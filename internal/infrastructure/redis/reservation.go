package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/soluna-labs/soluna-access-service/internal/config"
)

// ReservationCache holds advisory flash-sale slots in redis. A hold is a
// SETNX with a TTL, so abandoned checkouts free their slot without any
// cleanup job. The database check inside the redemption transaction remains
// the authority.
type ReservationCache struct {
	client *redis.Client
}

func NewReservationCache(cfg *config.AccessConfig) *ReservationCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return &ReservationCache{client: client}
}

func holdKey(flashSaleID, buyerID string) string {
	return fmt.Sprintf("flash_hold:%s:%s", flashSaleID, buyerID)
}

func (c *ReservationCache) Hold(ctx context.Context, flashSaleID, buyerID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, holdKey(flashSaleID, buyerID), 1, ttl).Result()
}

func (c *ReservationCache) Release(ctx context.Context, flashSaleID, buyerID string) error {
	return c.client.Del(ctx, holdKey(flashSaleID, buyerID)).Err()
}

func (c *ReservationCache) Close() error {
	return c.client.Close()
}
