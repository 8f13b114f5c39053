package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"stock-forecaster/src/helpers"
	"stock-forecaster/src/models"
)

type fakeRunner struct {
	mu     sync.Mutex
	calls  []string
	fail   map[string]bool
	cancel context.CancelFunc
}

func (f *fakeRunner) Run(ctx context.Context, ticker string, req models.MForecastRequest) (*models.MForecastOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ticker)
	if f.cancel != nil {
		f.cancel()
	}
	if f.fail[ticker] {
		return nil, helpers.NewDataUnavailableError(ticker, errors.New("boom"))
	}
	return &models.MForecastOutcome{Ticker: ticker}, nil
}

func testConfig(watchlist ...string) *models.MConfig {
	cfg := &models.MConfig{LogLevel: "ERROR"}
	cfg.Scheduler.Enabled = true
	cfg.Scheduler.Cron = "0 30 22 * * 1-5"
	cfg.Scheduler.Watchlist = watchlist
	return cfg
}

// -----------------------------------------------------------------------------

func TestRunOnceTradingDay(t *testing.T) {
	runner := &fakeRunner{fail: map[string]bool{"MSFT": true}}
	r, err := NewRefresher(testConfig("MSFT", "AAPL", "SPY"), runner)
	if err != nil {
		t.Fatal(err)
	}
	// Wednesday
	r.now = func() time.Time { return time.Date(2024, 3, 6, 23, 0, 0, 0, time.UTC) }

	got := r.RunOnce(context.Background())
	if got != 2 {
		t.Fatalf("succeeded = %d, want 2", got)
	}
	want := []string{"AAPL", "MSFT", "SPY"}
	if len(runner.calls) != len(want) {
		t.Fatalf("calls = %v", runner.calls)
	}
	for i := range want {
		if runner.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", runner.calls, want)
		}
	}
}

// -----------------------------------------------------------------------------

func TestRunOnceSkipsClosedMarkets(t *testing.T) {
	runner := &fakeRunner{}
	r, err := NewRefresher(testConfig("AAPL"), runner)
	if err != nil {
		t.Fatal(err)
	}
	// Saturday
	r.now = func() time.Time { return time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC) }

	if got := r.RunOnce(context.Background()); got != 0 || len(runner.calls) != 0 {
		t.Fatalf("weekend refresh ran %d (%v)", got, runner.calls)
	}
}

// -----------------------------------------------------------------------------

func TestRunOnceStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := &fakeRunner{cancel: cancel}
	r, err := NewRefresher(testConfig("AAPL", "MSFT", "SPY"), runner)
	if err != nil {
		t.Fatal(err)
	}
	r.now = func() time.Time { return time.Date(2024, 3, 6, 23, 0, 0, 0, time.UTC) }

	if got := r.RunOnce(ctx); got != 1 || len(runner.calls) != 1 {
		t.Fatalf("cancelled refresh ran %d (%v)", got, runner.calls)
	}
}

// -----------------------------------------------------------------------------

func TestInvalidCron(t *testing.T) {
	cfg := testConfig("AAPL")
	cfg.Scheduler.Cron = "every day"
	_, err := NewRefresher(cfg, &fakeRunner{})
	var cfgErr *helpers.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

// -----------------------------------------------------------------------------

func TestStartStop(t *testing.T) {
	r, err := NewRefresher(testConfig("AAPL"), &fakeRunner{})
	if err != nil {
		t.Fatal(err)
	}
	r.Start(context.Background())

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
