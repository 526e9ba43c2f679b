// internal/cache/cache.go

// Package cache holds the Redis-backed per-user product list cache. A cache
// miss is never an error to callers; the service falls back to the database.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ecorecettes/pantry-api/internal/config"
)

func InitRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logrus.Info("Redis connection established")
	return rdb, nil
}

func productListKey(userID string) string {
	return fmt.Sprintf("inventory:%s:products", userID)
}

// GetProductList returns the cached product list for a user, unmarshalled
// into dest. redis.Nil is returned on a miss.
func GetProductList(ctx context.Context, rdb *redis.Client, userID string, dest interface{}) error {
	data, err := rdb.Get(ctx, productListKey(userID)).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func SetProductList(ctx context.Context, rdb *redis.Client, userID string, products interface{}, ttl time.Duration) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, productListKey(userID), data, ttl).Err()
}

// InvalidateProductList drops a user's cached list after any write to their
// inventory.
func InvalidateProductList(ctx context.Context, rdb *redis.Client, userID string) error {
	return rdb.Del(ctx, productListKey(userID)).Err()
}
