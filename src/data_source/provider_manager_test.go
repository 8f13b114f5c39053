package datasource

import (
	"context"
	"errors"
	"testing"
	"time"

	"stock-forecaster/src/helpers"
	"stock-forecaster/src/interfaces"
	"stock-forecaster/src/logger"
	"stock-forecaster/src/models"
)

type stubProvider struct {
	name    string
	history []models.MPricePoint
	err     error
	calls   int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Fetch(ctx context.Context, ticker string, start, end time.Time) ([]models.MPricePoint, error) {
	s.calls++
	return s.history, s.err
}

type memCache struct {
	data   map[string][]models.MPricePoint
	getErr error
	sets   int
}

func (m *memCache) Get(ctx context.Context, key string) ([]models.MPricePoint, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	h, ok := m.data[key]
	return h, ok, nil
}

func (m *memCache) Set(ctx context.Context, key string, h []models.MPricePoint, ttl time.Duration) error {
	m.sets++
	m.data[key] = h
	return nil
}

func (m *memCache) Close() error { return nil }

func sampleHistory() []models.MPricePoint {
	return []models.MPricePoint{{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 10}}
}

func TestProviderManagerRouting(t *testing.T) {
	y := &stubProvider{name: "yahoo", history: sampleHistory()}
	a := &stubProvider{name: "alpaca", history: sampleHistory()}
	m, err := NewProviderManager([]interfaces.IMarketDataProvider{y, a}, "alpaca", logger.NewLogger(nil, "Test"))
	if err != nil {
		t.Fatalf("NewProviderManager: %v", err)
	}

	now := time.Now()
	if _, err := m.Fetch(context.Background(), "AAPL", now.AddDate(-1, 0, 0), now); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if a.calls != 1 || y.calls != 0 {
		t.Errorf("calls yahoo=%d alpaca=%d", y.calls, a.calls)
	}

	if _, err := m.Fetch(context.Background(), "", now.AddDate(-1, 0, 0), now); helpers.ErrorKind(err) != helpers.KindValidation {
		t.Errorf("empty ticker: %v", err)
	}
	if a.calls != 1 {
		t.Error("validation failure reached the provider")
	}

	if err := m.SetActive("bloomberg"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestCachedProvider(t *testing.T) {
	inner := &stubProvider{name: "yahoo", history: sampleHistory()}
	cache := &memCache{data: map[string][]models.MPricePoint{}}
	cp := NewCachedProvider(inner, cache, time.Minute)

	end := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	start := end.AddDate(-1, 0, 0)
	for i := 0; i < 2; i++ {
		h, err := cp.Fetch(context.Background(), "AAPL", start, end)
		if err != nil || len(h) != 1 {
			t.Fatalf("Fetch %d: %v %v", i, h, err)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
	if _, ok := cache.data["history:yahoo:AAPL:2023-03-01:2024-03-01"]; !ok {
		t.Errorf("cache keys = %v", cache.data)
	}

	cache.getErr = errors.New("redis down")
	if _, err := cp.Fetch(context.Background(), "AAPL", start, end); err != nil {
		t.Fatalf("cache failure should fall through: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2", inner.calls)
	}
}

func TestCachedProviderDoesNotCacheErrors(t *testing.T) {
	inner := &stubProvider{name: "yahoo", err: helpers.NewDataUnavailableError("ZZZ", errors.New("404"))}
	cache := &memCache{data: map[string][]models.MPricePoint{}}
	cp := NewCachedProvider(inner, cache, time.Minute)

	now := time.Now()
	if _, err := cp.Fetch(context.Background(), "ZZZ", now.AddDate(-1, 0, 0), now); helpers.ErrorKind(err) != helpers.KindDataUnavailable {
		t.Fatalf("got %v", err)
	}
	if cache.sets != 0 {
		t.Error("errors must not be cached")
	}
}
