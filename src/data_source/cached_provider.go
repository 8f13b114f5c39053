package datasource

import (
	"context"
	"fmt"
	"time"

	"stock-forecaster/src/interfaces"
	"stock-forecaster/src/logger"
	"stock-forecaster/src/models"
)

// CachedProvider serves repeated history requests from an IHistoryCache.
// Cache failures are logged and fall through to the wrapped provider.
type CachedProvider struct {
	Inner  interfaces.IMarketDataProvider
	Cache  interfaces.IHistoryCache
	TTL    time.Duration
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewCachedProvider(inner interfaces.IMarketDataProvider, cache interfaces.IHistoryCache, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		Inner:  inner,
		Cache:  cache,
		TTL:    ttl,
		Logger: logger.NewLogger(nil, "CachedProvider"),
	}
}

// -----------------------------------------------------------------------------

func (c *CachedProvider) Name() string {
	return c.Inner.Name()
}

// -----------------------------------------------------------------------------

// CacheKey identifies a history window. Dates are truncated to the day so
// requests within the same day share an entry.
func CacheKey(provider, ticker string, start, end time.Time) string {
	return fmt.Sprintf("history:%s:%s:%s:%s", provider, ticker,
		start.UTC().Format("2006-01-02"), end.UTC().Format("2006-01-02"))
}

// -----------------------------------------------------------------------------

func (c *CachedProvider) Fetch(ctx context.Context, ticker string, start, end time.Time) ([]models.MPricePoint, error) {
	if err := ValidateFetch(ticker, start, end); err != nil {
		return nil, err
	}

	key := CacheKey(c.Inner.Name(), ticker, start, end)

	history, ok, err := c.Cache.Get(ctx, key)
	if err != nil {
		c.Logger.Warning("Cache read failed for %s: %v", key, err)
	} else if ok {
		c.Logger.Debug("Cache hit for %s (%d points)", key, len(history))
		return history, nil
	}

	history, err = c.Inner.Fetch(ctx, ticker, start, end)
	if err != nil {
		return nil, err
	}

	if err := c.Cache.Set(ctx, key, history, c.TTL); err != nil {
		c.Logger.Warning("Cache write failed for %s: %v", key, err)
	}
	return history, nil
}
