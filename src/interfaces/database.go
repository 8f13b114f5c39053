package interfaces

import (
	"context"

	"stock-forecaster/src/models"
)

// -----------------------------------------------------------------------------
// IRunStore defines the contract for persisting completed forecasts.
// -----------------------------------------------------------------------------

type IRunStore interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// SaveRun inserts one completed forecast.
	SaveRun(ctx context.Context, run *models.MForecastRun) error

	// -----------------------------------------------------------------------------

	// ListRuns returns at most limit runs for ticker, newest first.
	ListRuns(ctx context.Context, ticker string, limit int) ([]models.MForecastRun, error)

	// -----------------------------------------------------------------------------

	// CleanupOldData removes runs older than the retention policy.
	CleanupOldData() error

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
