package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stock-forecaster/src/logger"
	"stock-forecaster/src/models"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "stockforecaster:"

// RedisHistoryCache keeps fetched price histories in Redis as JSON.
type RedisHistoryCache struct {
	client *redis.Client
	prefix string
	logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewRedisHistoryCache(cfg models.MCacheConfig) *RedisHistoryCache {
	return NewRedisHistoryCacheWithClient(redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}))
}

// -----------------------------------------------------------------------------

func NewRedisHistoryCacheWithClient(client *redis.Client) *RedisHistoryCache {
	return &RedisHistoryCache{
		client: client,
		prefix: keyPrefix,
		logger: logger.NewLogger(nil, "RedisHistoryCache"),
	}
}

// -----------------------------------------------------------------------------

// Ping checks connectivity.
func (c *RedisHistoryCache) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := c.client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	c.logger.Info("Connected to Redis at %s", c.client.Options().Addr)
	return nil
}

// -----------------------------------------------------------------------------

func (c *RedisHistoryCache) Get(ctx context.Context, key string) ([]models.MPricePoint, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var history []models.MPricePoint
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return history, true, nil
}

// -----------------------------------------------------------------------------

func (c *RedisHistoryCache) Set(ctx context.Context, key string, history []models.MPricePoint, ttl time.Duration) error {
	data, err := json.Marshal(history)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
}

// -----------------------------------------------------------------------------

func (c *RedisHistoryCache) Close() error {
	return c.client.Close()
}
