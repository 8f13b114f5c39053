package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"stock-forecaster/src/logger"
	"stock-forecaster/src/models"

	"github.com/google/uuid"
)

func newSQLiteStore(t *testing.T) *SQLRunStore {
	t.Helper()
	cfg := &models.MConfig{}
	cfg.Storage.DBPath = filepath.Join(t.TempDir(), "runs.db")
	cfg.Storage.RetentionDays = 30

	store := NewSQLiteRunStore(cfg, logger.NewLogger(nil, "SQLiteTest"))
	if err := store.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func run(id, ticker string, created int64) *models.MForecastRun {
	return &models.MForecastRun{
		ID:              id,
		Ticker:          ticker,
		Strategy:        "arima",
		HorizonDays:     30,
		HistoryPoints:   250,
		LastClose:       189.5,
		ForecastPrice:   195.25,
		TrendPercentage: 3.03,
		ForecastJSON:    `[{"date":"2024-03-08T00:00:00Z","predicted_close":190.1}]`,
		CreatedAt:       created,
	}
}

func TestSQLiteRoundTripNewestFirst(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().Unix()

	for _, r := range []*models.MForecastRun{
		run("a", "AAPL", now-20),
		run("b", "AAPL", now-10),
		run("c", "MSFT", now-5),
		run("d", "AAPL", now),
	} {
		if err := store.SaveRun(ctx, r); err != nil {
			t.Fatalf("SaveRun(%s): %v", r.ID, err)
		}
	}

	got, err := store.ListRuns(ctx, "AAPL", 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(got) != 2 || got[0].ID != "d" || got[1].ID != "b" {
		t.Fatalf("ListRuns = %+v", got)
	}
	if *run("d", "AAPL", now) != got[0] {
		t.Errorf("round trip mismatch: %+v", got[0])
	}

	all, err := store.ListRuns(ctx, "", 10)
	if err != nil || len(all) != 4 {
		t.Errorf("all runs = %d, %v", len(all), err)
	}
}

func TestSQLiteSameSecondNewestFirst(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().Unix()

	var ids []string
	for i := 0; i < 20; i++ {
		id, err := uuid.NewV7()
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id.String())
		if err := store.SaveRun(ctx, run(id.String(), "AAPL", now)); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}

		got, err := store.ListRuns(ctx, "AAPL", 1)
		if err != nil {
			t.Fatalf("ListRuns: %v", err)
		}
		if len(got) != 1 || got[0].ID != id.String() {
			t.Fatalf("after save %d newest = %+v, want %s", i, got, id)
		}
	}

	all, err := store.ListRuns(ctx, "AAPL", len(ids))
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	for i, r := range all {
		if want := ids[len(ids)-1-i]; r.ID != want {
			t.Fatalf("position %d = %s, want %s", i, r.ID, want)
		}
	}
}

func TestSQLiteDuplicateID(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	if err := store.SaveRun(ctx, run("x", "AAPL", 1)); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveRun(ctx, run("x", "AAPL", 2)); err == nil {
		t.Error("expected primary key violation")
	}
}

func TestSQLiteCleanup(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	old := time.Now().AddDate(0, 0, -60).Unix()
	if err := store.SaveRun(ctx, run("old", "AAPL", old)); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveRun(ctx, run("new", "AAPL", time.Now().Unix())); err != nil {
		t.Fatal(err)
	}
	if err := store.CleanupOldData(); err != nil {
		t.Fatalf("CleanupOldData: %v", err)
	}
	got, _ := store.ListRuns(ctx, "AAPL", 10)
	if len(got) != 1 || got[0].ID != "new" {
		t.Errorf("after cleanup: %+v", got)
	}
}

func TestPostgresTableName(t *testing.T) {
	cfg := &models.MConfig{Name: "Stock-Forecaster"}
	store := NewPostgresRunStore(cfg, logger.NewLogger(nil, "PGTest"))
	if store.table != `"stock_forecaster".forecast_runs` {
		t.Errorf("table = %s", store.table)
	}
	if store.driver != "postgres" {
		t.Errorf("driver = %s", store.driver)
	}
}
