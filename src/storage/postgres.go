package storage

import (
	"fmt"
	"regexp"
	"strings"

	"stock-forecaster/src/logger"
	"stock-forecaster/src/models"

	_ "github.com/lib/pq"
)

var schemaUnsafe = regexp.MustCompile(`[^a-z0-9_]`)

// -----------------------------------------------------------------------------

// NewPostgresRunStore keeps runs in a schema named after the application.
func NewPostgresRunStore(cfg *models.MConfig, log *logger.Logger) *SQLRunStore {
	schema := schemaUnsafe.ReplaceAllString(strings.ToLower(cfg.Name), "_")
	if schema == "" {
		schema = "stock_forecaster"
	}
	table := fmt.Sprintf(`"%s".forecast_runs`, schema)

	return &SQLRunStore{
		Config: cfg,
		Logger: log,
		driver: "postgres",
		dsn:    cfg.Storage.DBConnectionString,
		table:  table,
		schema: []string{
			fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, schema),
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				ticker TEXT NOT NULL,
				strategy TEXT NOT NULL,
				horizon_days INTEGER NOT NULL,
				history_points INTEGER NOT NULL,
				last_close DOUBLE PRECISION NOT NULL,
				forecast_price DOUBLE PRECISION NOT NULL,
				trend_percentage DOUBLE PRECISION NOT NULL,
				forecast_json TEXT NOT NULL,
				created_at BIGINT NOT NULL
			)`, table),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_forecast_runs_ticker ON %s (ticker, created_at)`, table),
		},
	}
}
