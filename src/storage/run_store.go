package storage

import (
	"context"
	"fmt"
	"time"

	"stock-forecaster/src/helpers"
	"stock-forecaster/src/logger"
	"stock-forecaster/src/models"

	"github.com/jmoiron/sqlx"
)

const runColumns = `id, ticker, strategy, horizon_days, history_points, last_close,
	forecast_price, trend_percentage, forecast_json, created_at`

// -----------------------------------------------------------------------------

// SQLRunStore persists forecast runs through sqlx. The dialect-specific
// parts are the driver, the DSN and the schema statements.
type SQLRunStore struct {
	Config *models.MConfig
	DB     *sqlx.DB
	Logger *logger.Logger

	driver string
	dsn    string
	table  string
	schema []string
	pragma []string
}

// -----------------------------------------------------------------------------

func (d *SQLRunStore) Initialize() error {
	db, err := sqlx.Open(d.driver, d.dsn)
	if err != nil {
		return helpers.NewDatabaseError("failed to open "+d.driver, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return helpers.NewDatabaseError("failed to reach "+d.driver, err)
	}

	d.DB = db

	for _, stmt := range d.pragma {
		if _, err := db.Exec(stmt); err != nil {
			d.Logger.Warning("Failed to apply %q: %v", stmt, err)
		}
	}

	for _, stmt := range d.schema {
		if _, err := db.Exec(stmt); err != nil {
			return helpers.NewDatabaseError("failed to create schema", err)
		}
	}

	d.Logger.Info("%s run store initialized (table %s)", d.driver, d.table)
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLRunStore) SaveRun(ctx context.Context, run *models.MForecastRun) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (
		:id, :ticker, :strategy, :horizon_days, :history_points, :last_close,
		:forecast_price, :trend_percentage, :forecast_json, :created_at)`, d.table, runColumns)

	if _, err := d.DB.NamedExecContext(ctx, query, run); err != nil {
		return helpers.NewDatabaseError("failed to save run "+run.ID, err)
	}
	return nil
}

// -----------------------------------------------------------------------------

// ListRuns returns runs newest first. An empty ticker lists every ticker.
func (d *SQLRunStore) ListRuns(ctx context.Context, ticker string, limit int) ([]models.MForecastRun, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		query string
		args  []interface{}
	)
	if ticker == "" {
		query = fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at DESC, id DESC LIMIT ?`, runColumns, d.table)
		args = []interface{}{limit}
	} else {
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE ticker = ? ORDER BY created_at DESC, id DESC LIMIT ?`, runColumns, d.table)
		args = []interface{}{ticker, limit}
	}

	runs := []models.MForecastRun{}
	if err := d.DB.SelectContext(ctx, &runs, d.DB.Rebind(query), args...); err != nil {
		return nil, helpers.NewDatabaseError("failed to list runs", err)
	}
	return runs, nil
}

// -----------------------------------------------------------------------------

func (d *SQLRunStore) CleanupOldData() error {
	retentionDays := d.Config.Storage.RetentionDays
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Unix()

	res, err := d.DB.Exec(d.DB.Rebind(fmt.Sprintf("DELETE FROM %s WHERE created_at < ?", d.table)), cutoff)
	if err != nil {
		return helpers.NewDatabaseError("cleanup failed", err)
	}
	n, _ := res.RowsAffected()
	d.Logger.Info("Cleanup removed %d runs older than %d days", n, retentionDays)
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLRunStore) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
