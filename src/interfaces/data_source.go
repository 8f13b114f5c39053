package interfaces

import (
	"context"
	"time"

	"stock-forecaster/src/models"
)

// -----------------------------------------------------------------------------
// IMarketDataProvider fetches daily closing prices from an external source.
// -----------------------------------------------------------------------------

type IMarketDataProvider interface {

	// Name returns the unique identifier of the provider
	Name() string

	// -----------------------------------------------------------------------------

	// Fetch returns chronologically ordered, date-unique daily closes for
	// ticker in [start, end).
	Fetch(ctx context.Context, ticker string, start, end time.Time) ([]models.MPricePoint, error)
}

// -----------------------------------------------------------------------------
// IHistoryCache stores fetched histories between requests.
// -----------------------------------------------------------------------------

type IHistoryCache interface {
	// Get reports a hit with ok. A miss is not an error.
	Get(ctx context.Context, key string) (history []models.MPricePoint, ok bool, err error)

	Set(ctx context.Context, key string, history []models.MPricePoint, ttl time.Duration) error

	Close() error
}
