package cache

import (
	"context"
	"testing"
	"time"

	"stock-forecaster/src/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func TestNoopNeverHits(t *testing.T) {
	var c NoopHistoryCache
	ctx := context.Background()
	if err := c.Set(ctx, "k", []models.MPricePoint{{Close: 1}}, time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("Get = ok %v err %v", ok, err)
	}
}

func TestRedisUnreachableReportsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisHistoryCacheWithClient(client)
	defer c.Close()

	ctx := context.Background()
	if _, ok, err := c.Get(ctx, "history:yahoo:AAPL"); err == nil || ok {
		t.Errorf("expected connection error, got ok=%v err=%v", ok, err)
	}
	if err := c.Ping(ctx); err == nil {
		t.Error("expected ping error")
	}
}

func newMiniRedisCache(t *testing.T) (*RedisHistoryCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	c := NewRedisHistoryCacheWithClient(redis.NewClient(&redis.Options{Addr: srv.Addr()}))
	t.Cleanup(func() { c.Close() })
	return c, srv
}

func TestRedisRoundTrip(t *testing.T) {
	c, srv := newMiniRedisCache(t)
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	history := []models.MPricePoint{
		{Date: time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), Close: 169.0},
		{Date: time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), Close: 170.7},
	}
	key := "history:yahoo:AAPL:2023-03-08:2024-03-08"
	if err := c.Set(ctx, key, history, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ttl := srv.TTL(keyPrefix + key); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}

	got, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Get = ok %v err %v", ok, err)
	}
	if len(got) != len(history) {
		t.Fatalf("got %d points, want %d", len(got), len(history))
	}
	for i := range history {
		if !got[i].Date.Equal(history[i].Date) || got[i].Close != history[i].Close {
			t.Errorf("point %d = %+v, want %+v", i, got[i], history[i])
		}
	}
}

func TestRedisMissAndExpiry(t *testing.T) {
	c, srv := newMiniRedisCache(t)
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "history:yahoo:MSFT"); ok || err != nil {
		t.Fatalf("missing key: ok %v err %v", ok, err)
	}

	if err := c.Set(ctx, "history:yahoo:AAPL", []models.MPricePoint{{Close: 1}}, time.Minute); err != nil {
		t.Fatal(err)
	}
	srv.FastForward(2 * time.Minute)
	if _, ok, err := c.Get(ctx, "history:yahoo:AAPL"); ok || err != nil {
		t.Fatalf("expired key: ok %v err %v", ok, err)
	}
}

func TestRedisCorruptEntry(t *testing.T) {
	c, srv := newMiniRedisCache(t)

	if err := srv.Set(keyPrefix+"history:yahoo:AAPL", "not json"); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(context.Background(), "history:yahoo:AAPL"); err == nil || ok {
		t.Fatalf("corrupt entry: ok %v err %v", ok, err)
	}
}
