package storage

import (
	"stock-forecaster/src/logger"
	"stock-forecaster/src/models"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know by default.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// -----------------------------------------------------------------------------

func NewSQLiteRunStore(cfg *models.MConfig, log *logger.Logger) *SQLRunStore {
	return &SQLRunStore{
		Config: cfg,
		Logger: log,
		driver: "sqlite",
		dsn:    cfg.Storage.DBPath,
		table:  "forecast_runs",
		pragma: []string{
			"PRAGMA journal_mode = WAL;",
			"PRAGMA synchronous = NORMAL;",
		},
		schema: []string{
			`CREATE TABLE IF NOT EXISTS forecast_runs (
				id TEXT PRIMARY KEY,
				ticker TEXT NOT NULL,
				strategy TEXT NOT NULL,
				horizon_days INTEGER NOT NULL,
				history_points INTEGER NOT NULL,
				last_close REAL NOT NULL,
				forecast_price REAL NOT NULL,
				trend_percentage REAL NOT NULL,
				forecast_json TEXT NOT NULL,
				created_at INTEGER NOT NULL
			);`,
			`CREATE INDEX IF NOT EXISTS idx_forecast_runs_ticker ON forecast_runs (ticker, created_at);`,
		},
	}
}
