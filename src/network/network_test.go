package network

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"stock-forecaster/src/logger"
	"stock-forecaster/src/models"
)

func newManager(retries int) *AsyncNetworkManager {
	cfg := &models.MConfig{}
	cfg.Network.RequestTimeout = 5
	cfg.Network.MaxRetries = retries
	cfg.Network.UserAgent = "forecaster-test"
	return NewAsyncNetworkManager(cfg, logger.NewLogger(nil, "NetworkTest"))
}

func TestGetPassesParamsAndUserAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("interval") != "1d" {
			t.Errorf("interval param = %q", r.URL.Query().Get("interval"))
		}
		if r.UserAgent() != "forecaster-test" {
			t.Errorf("user agent = %q", r.UserAgent())
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	body, err := newManager(0).Get(context.Background(), srv.URL, map[string]string{"interval": "1d"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %s", body)
	}
}

func TestGetNoRetryByDefault(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	_, err := newManager(0).Get(context.Background(), srv.URL, nil)
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected StatusError 502, got %v", err)
	}
	if string(se.Body) != "upstream down" {
		t.Errorf("body = %q", se.Body)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
