package storage

import (
	"context"

	"stock-forecaster/src/models"
)

// NoopRunStore discards runs. Used when db_type is "none".
type NoopRunStore struct{}

func (NoopRunStore) Initialize() error                                           { return nil }
func (NoopRunStore) SaveRun(ctx context.Context, run *models.MForecastRun) error { return nil }
func (NoopRunStore) ListRuns(ctx context.Context, ticker string, limit int) ([]models.MForecastRun, error) {
	return []models.MForecastRun{}, nil
}
func (NoopRunStore) CleanupOldData() error { return nil }
func (NoopRunStore) Close() error          { return nil }
