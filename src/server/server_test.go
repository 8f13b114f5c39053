package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"stock-forecaster/src/helpers"
	"stock-forecaster/src/logger"
	"stock-forecaster/src/models"
	"stock-forecaster/src/pipeline"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type fakeProvider struct {
	mu      sync.Mutex
	history map[string][]models.MPricePoint
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Fetch(ctx context.Context, ticker string, start, end time.Time) ([]models.MPricePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.history[ticker]
	if !ok {
		return nil, helpers.NewDataUnavailableError(ticker, errors.New("not found"))
	}
	return h, nil
}

func linearHistory(n int) []models.MPricePoint {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.MPricePoint, n)
	for i := range out {
		out[i] = models.MPricePoint{Date: start.AddDate(0, 0, i), Close: 100 + float64(i)}
	}
	return out
}

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &models.MConfig{LogLevel: "ERROR"}
	cfg.DataSource.HistoryYears = 1
	cfg.Forecast.DefaultStrategy = "linear"
	cfg.Forecast.HorizonDays = 30
	cfg.Forecast.HorizonMode = "calendar"
	cfg.Forecast.SeasonalPeriod = 7
	cfg.Forecast.DecompositionPeriod = 30
	cfg.Forecast.RecentCapacity = 10

	provider := &fakeProvider{history: map[string][]models.MPricePoint{
		"AAPL": linearHistory(10),
		"LONG": linearHistory(120),
		"TINY": linearHistory(1),
	}}
	pipe := pipeline.NewPipeline(cfg, provider, nil)
	s := NewHTTPServer(cfg, pipe, nil, logger.NewLogger(cfg, "HTTPServer"))
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func do(t *testing.T, s *HTTPServer, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.MErrorResponse {
	t.Helper()
	var body models.MErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad error body %q: %v", w.Body.String(), err)
	}
	if body.Success {
		t.Fatalf("error body has success=true")
	}
	return body
}

// -----------------------------------------------------------------------------

func TestPostIndexSuccess(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, postForm(url.Values{"ticker": {"aapl"}, "days": {"3"}}))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var body models.MForecastResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.Success || body.Ticker != "AAPL" || body.Strategy != "linear" {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.CurrentPrice != 109 || body.ForecastPrice != 112 {
		t.Fatalf("prices = %v / %v", body.CurrentPrice, body.ForecastPrice)
	}
	if body.Plot == nil || len(body.Plot.Data) < 2 {
		t.Fatalf("missing plot")
	}
}

// -----------------------------------------------------------------------------

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name   string
		req    *http.Request
		status int
		kind   string
	}{
		{"empty ticker", postForm(url.Values{"ticker": {""}}), http.StatusBadRequest, "validation"},
		{"days out of range", postForm(url.Values{"ticker": {"AAPL"}, "days": {"400"}}), http.StatusBadRequest, "validation"},
		{"days not a number", postForm(url.Values{"ticker": {"AAPL"}, "days": {"ten"}}), http.StatusBadRequest, "validation"},
		{"unknown strategy", httptest.NewRequest(http.MethodGet, "/api/forecast/AAPL?strategy=magic", nil), http.StatusBadRequest, "validation"},
		{"unknown ticker", httptest.NewRequest(http.MethodGet, "/api/forecast/ZZZZ", nil), http.StatusNotFound, "data_unavailable"},
		{"too short", httptest.NewRequest(http.MethodGet, "/api/forecast/TINY?strategy=arima", nil), http.StatusUnprocessableEntity, "forecast"},
		{"dashboard unknown ticker", httptest.NewRequest(http.MethodGet, "/api/dashboard_data/ZZZZ", nil), http.StatusNotFound, "data_unavailable"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, s, tc.req)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.status, w.Body.String())
			}
			body := decodeError(t, w)
			if body.ErrorType != tc.kind {
				t.Fatalf("error_type = %q, want %q", body.ErrorType, tc.kind)
			}
			if body.Error == "" {
				t.Fatalf("empty error message")
			}
		})
	}
}

// -----------------------------------------------------------------------------

func TestForecastFormats(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, httptest.NewRequest(http.MethodGet, "/api/forecast/AAPL?days=3&format=summary", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("summary status = %d", w.Code)
	}
	var summary struct {
		Success bool            `json:"success"`
		Summary models.MSummary `json:"summary"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatal(err)
	}
	if !summary.Success || summary.Summary.ForecastPrice != 112 || summary.Summary.TrendPercentage != 2.75 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	w = do(t, s, httptest.NewRequest(http.MethodGet, "/api/forecast/AAPL?days=3&format=html", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Plotly.newPlot") {
		t.Fatalf("html format: %d %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}

	w = do(t, s, httptest.NewRequest(http.MethodGet, "/api/forecast/AAPL?format=xml", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("xml format status = %d", w.Code)
	}
}

// -----------------------------------------------------------------------------

func TestDashboardData(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, httptest.NewRequest(http.MethodGet, "/api/dashboard_data/long?days=5", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var body models.MDashboardData
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Ticker != "LONG" || len(body.HistoricalData) != 120 || len(body.HistoricalDates) != 120 {
		t.Fatalf("unexpected history %d/%d", len(body.HistoricalData), len(body.HistoricalDates))
	}
	if len(body.ForecastData) != 5 || len(body.ForecastDates) != 5 {
		t.Fatalf("unexpected forecast %d/%d", len(body.ForecastData), len(body.ForecastDates))
	}
	if body.ForecastDates[0] != "2024-04-30" {
		t.Fatalf("first forecast date = %s", body.ForecastDates[0])
	}
	if len(body.Signals) == 0 {
		t.Fatalf("signals should be on by default")
	}
}

// -----------------------------------------------------------------------------

func TestPages(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "holt_winters") {
		t.Fatalf("index: %d", w.Code)
	}

	w = do(t, s, httptest.NewRequest(http.MethodGet, "/dashboard/long", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "LONG Stock Price Forecast") || !strings.Contains(w.Body.String(), "chart-LONG") {
		t.Fatalf("dashboard page missing content")
	}

	w = do(t, s, httptest.NewRequest(http.MethodGet, "/dashboard/zzzz", nil))
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "no data available") {
		t.Fatalf("dashboard error page: %d", w.Code)
	}
}

// -----------------------------------------------------------------------------

func TestStrategiesRecentAndRuns(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, httptest.NewRequest(http.MethodGet, "/api/strategies", nil))
	var strategies struct {
		Strategies []struct {
			Name       string `json:"name"`
			MinHistory int    `json:"min_history"`
		} `json:"strategies"`
		Default string `json:"default"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &strategies); err != nil {
		t.Fatal(err)
	}
	if len(strategies.Strategies) != 4 || strategies.Default != "linear" {
		t.Fatalf("unexpected strategies %+v", strategies)
	}

	do(t, s, postForm(url.Values{"ticker": {"AAPL"}, "days": {"3"}}))

	w = do(t, s, httptest.NewRequest(http.MethodGet, "/api/recent", nil))
	var recent struct {
		Summaries []models.MForecastSummary `json:"summaries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &recent); err != nil {
		t.Fatal(err)
	}
	if len(recent.Summaries) != 1 || recent.Summaries[0].Ticker != "AAPL" {
		t.Fatalf("unexpected recent %+v", recent)
	}
	// (112-109)/109*100 = 2.7522...
	if got := recent.Summaries[0].TrendPercentage; got != 2.75 {
		t.Fatalf("recent trend_percentage = %v, want 2.75", got)
	}

	w = do(t, s, httptest.NewRequest(http.MethodGet, "/api/recent?limit=many", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad recent limit status = %d", w.Code)
	}

	w = do(t, s, httptest.NewRequest(http.MethodGet, "/api/runs/aapl", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"runs":[]`) {
		t.Fatalf("runs without store: %d %s", w.Code, w.Body.String())
	}

	w = do(t, s, httptest.NewRequest(http.MethodGet, "/api/runs/aapl?limit=0", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad limit status = %d", w.Code)
	}
}

// -----------------------------------------------------------------------------

func TestHealthAndCORS(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://127.0.0.1:3000")
	w := do(t, s, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "healthy") {
		t.Fatalf("health: %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://127.0.0.1:3000" {
		t.Fatalf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = do(t, s, req)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("preflight: %d %q", w.Code, w.Header().Get("Access-Control-Allow-Origin"))
	}
}

// -----------------------------------------------------------------------------

func readHubMessage(t *testing.T, conn *websocket.Conn) models.MHubMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var msg models.MHubMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

// readUntil skips messages of other types, such as updates queued before a
// subscription took effect.
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) models.MHubMessage {
	t.Helper()
	for i := 0; i < 10; i++ {
		if msg := readHubMessage(t, conn); msg.Type == msgType {
			return msg
		}
	}
	t.Fatalf("no %s message received", msgType)
	return models.MHubMessage{}
}

func TestWebSocketPushesSummaries(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	// Seed one summary so the initial message is not empty.
	do(t, s, postForm(url.Values{"ticker": {"AAPL"}, "days": {"3"}}))

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	initial := readHubMessage(t, conn)
	if initial.Type != MessageInitial || len(initial.Summaries) != 1 || initial.Summaries[0].Ticker != "AAPL" {
		t.Fatalf("unexpected initial message %+v", initial)
	}
	if got := initial.Summaries[0].TrendPercentage; got != 2.75 {
		t.Fatalf("pushed trend_percentage = %v, want 2.75", got)
	}

	// Filter to LONG; the reply carries no AAPL summaries.
	if err := conn.WriteJSON(models.MSubscribeCommand{Command: "subscribe", Symbols: []string{"long"}}); err != nil {
		t.Fatal(err)
	}
	reply := readUntil(t, conn, MessageInitial)
	if reply.Type != MessageInitial || len(reply.Summaries) != 0 {
		t.Fatalf("unexpected subscribe reply %+v", reply)
	}

	do(t, s, postForm(url.Values{"ticker": {"AAPL"}, "days": {"3"}}))
	do(t, s, postForm(url.Values{"ticker": {"LONG"}, "days": {"3"}}))

	recent := s.Pipeline.RecentSummaries()
	filtered := recent[len(recent)-2]
	if filtered.Ticker != "AAPL" {
		t.Fatalf("unexpected recent order %+v", recent)
	}

	// An AAPL update broadcast before the subscription may still be in
	// flight; the one run after it must not arrive.
	for i := 0; i < 10; i++ {
		update := readUntil(t, conn, MessageUpdate)
		if len(update.Summaries) != 1 {
			t.Fatalf("unexpected update %+v", update)
		}
		got := update.Summaries[0]
		if got.RunID == filtered.RunID {
			t.Fatalf("received update for unsubscribed ticker %s", got.Ticker)
		}
		if got.Ticker == "LONG" {
			return
		}
	}
	t.Fatal("no LONG update received")
}

// -----------------------------------------------------------------------------

func TestBroadcastNeverBlocks(t *testing.T) {
	s := newTestServer(t)
	s.Shutdown(context.Background())

	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(s.broadcast)+10; i++ {
			s.Broadcast(models.MForecastSummary{Ticker: "AAPL"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked")
	}
}
