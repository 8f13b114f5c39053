package cache

import (
	"context"
	"time"

	"stock-forecaster/src/models"
)

// NoopHistoryCache never hits. It stands in when caching is disabled.
type NoopHistoryCache struct{}

func (NoopHistoryCache) Get(ctx context.Context, key string) ([]models.MPricePoint, bool, error) {
	return nil, false, nil
}

func (NoopHistoryCache) Set(ctx context.Context, key string, history []models.MPricePoint, ttl time.Duration) error {
	return nil
}

func (NoopHistoryCache) Close() error { return nil }
