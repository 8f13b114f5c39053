package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"stock-forecaster/src/forecast"
	"stock-forecaster/src/helpers"
	"stock-forecaster/src/interfaces"
	"stock-forecaster/src/logger"
	"stock-forecaster/src/models"
	"stock-forecaster/src/presenter"
	"stock-forecaster/src/utils"

	"github.com/google/uuid"
)

// Request bounds.
const (
	MinHorizonDays = 1
	MaxHorizonDays = 365
)

var tickerPattern = regexp.MustCompile(`^[A-Z0-9.^=-]{1,15}$`)

// Pipeline runs fetch, forecast and presentation for one ticker and records
// the outcome. Recording is best-effort and never fails a request.
type Pipeline struct {
	Config     *models.MConfig
	Provider   interfaces.IMarketDataProvider
	Forecaster *forecast.Forecaster
	Presenter  *presenter.Presenter
	Store      interfaces.IRunStore
	Exchanger  interfaces.IDataExchanger
	Recent     *utils.RingBuffer[models.MForecastSummary]
	Logger     *logger.Logger

	now func() time.Time
}

// -----------------------------------------------------------------------------

func NewPipeline(cfg *models.MConfig, provider interfaces.IMarketDataProvider, store interfaces.IRunStore) *Pipeline {
	return &Pipeline{
		Config:     cfg,
		Provider:   provider,
		Forecaster: forecast.NewForecaster(cfg),
		Presenter:  presenter.NewPresenter(cfg),
		Store:      store,
		Recent:     utils.NewRingBuffer[models.MForecastSummary](cfg.Forecast.RecentCapacity),
		Logger:     logger.NewLogger(cfg, "Pipeline"),
		now:        time.Now,
	}
}

// -----------------------------------------------------------------------------

// NormalizeTicker trims and upper-cases raw and checks the result.
func NormalizeTicker(raw string) (string, error) {
	ticker := strings.ToUpper(strings.TrimSpace(raw))
	if ticker == "" {
		return "", helpers.NewValidationError("ticker", "ticker is required")
	}
	if !tickerPattern.MatchString(ticker) {
		return "", helpers.NewValidationError("ticker", "invalid ticker %q", raw)
	}
	return ticker, nil
}

// -----------------------------------------------------------------------------

// resolve fills request defaults and validates them.
func (p *Pipeline) resolve(req models.MForecastRequest) (models.MForecastRequest, error) {
	req.Strategy = strings.ToLower(strings.TrimSpace(req.Strategy))
	if req.Strategy == "" {
		req.Strategy = p.Config.Forecast.DefaultStrategy
	}
	if !p.Forecaster.Registry.Has(req.Strategy) {
		return req, helpers.NewValidationError("strategy", "unknown strategy %q", req.Strategy)
	}

	if req.HorizonDays == 0 {
		req.HorizonDays = p.Config.Forecast.HorizonDays
	}
	if req.HorizonDays < MinHorizonDays || req.HorizonDays > MaxHorizonDays {
		return req, helpers.NewValidationError("days", "forecast days must be between %d and %d, got %d",
			MinHorizonDays, MaxHorizonDays, req.HorizonDays)
	}

	switch req.Options.Format {
	case "", models.FormatChart, models.FormatHTML, models.FormatSummary, models.FormatDashboard:
	default:
		return req, helpers.NewValidationError("format", "unknown format %q", req.Options.Format)
	}
	return req, nil
}

// -----------------------------------------------------------------------------

// Run executes the pipeline. Nothing partial is returned on error.
func (p *Pipeline) Run(ctx context.Context, rawTicker string, req models.MForecastRequest) (*models.MForecastOutcome, error) {
	ticker, err := NormalizeTicker(rawTicker)
	if err != nil {
		return nil, err
	}
	req, err = p.resolve(req)
	if err != nil {
		return nil, err
	}

	years := p.Config.DataSource.HistoryYears
	if years <= 0 {
		years = 1
	}
	end := p.now()
	start := end.AddDate(-years, 0, 0)

	history, err := p.Provider.Fetch(ctx, ticker, start, end)
	if err != nil {
		p.Logger.Warning("Fetch failed for %s: %v", ticker, err)
		return nil, err
	}

	result, err := p.Forecaster.ForecastTicker(ticker, history, req.HorizonDays, req.Strategy)
	if err != nil {
		p.Logger.Warning("Forecast failed for %s: %v", ticker, err)
		return nil, err
	}

	pres, err := p.Presenter.Present(ticker, history, result, req.Options)
	if err != nil {
		return nil, err
	}

	// Version 7 IDs sort by creation time, which orders runs saved in the same second.
	runID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}

	outcome := &models.MForecastOutcome{
		RunID:        runID.String(),
		Ticker:       ticker,
		Strategy:     req.Strategy,
		History:      history,
		Result:       result,
		Presentation: pres,
	}
	outcome.Summary = models.MForecastSummary{
		RunID:           outcome.RunID,
		Ticker:          ticker,
		Strategy:        req.Strategy,
		LatestPrice:     pres.Summary.LatestPrice,
		PreviousClose:   pres.Summary.PreviousClose,
		PriceChange:     pres.Summary.PriceChange,
		ForecastPrice:   pres.Summary.ForecastPrice,
		TrendPercentage: pres.Summary.TrendPercentage,
		HorizonDays:     req.HorizonDays,
		GeneratedAt:     end.Unix(),
	}

	p.record(ctx, outcome, req.HorizonDays)

	p.Logger.Info("%s/%s: %d points, forecast %.2f (%.2f%%)", ticker, req.Strategy,
		len(history), pres.Summary.ForecastPrice, pres.Summary.TrendPercentage)
	return outcome, nil
}

// -----------------------------------------------------------------------------

func (p *Pipeline) record(ctx context.Context, o *models.MForecastOutcome, horizon int) {
	p.Recent.Append(o.Summary)

	if p.Exchanger != nil {
		p.Exchanger.Broadcast(o.Summary)
	}

	if p.Store == nil {
		return
	}
	forecastJSON, err := json.Marshal(o.Result.Forecast)
	if err != nil {
		p.Logger.Error("Failed to encode forecast for %s: %v", o.Ticker, err)
		return
	}
	run := &models.MForecastRun{
		ID:              o.RunID,
		Ticker:          o.Ticker,
		Strategy:        o.Strategy,
		HorizonDays:     horizon,
		HistoryPoints:   len(o.History),
		LastClose:       o.Summary.LatestPrice,
		ForecastPrice:   o.Summary.ForecastPrice,
		TrendPercentage: o.Summary.TrendPercentage,
		ForecastJSON:    string(forecastJSON),
		CreatedAt:       o.Summary.GeneratedAt,
	}
	if err := p.Store.SaveRun(context.WithoutCancel(ctx), run); err != nil {
		p.Logger.Error("Failed to save run for %s: %v", o.Ticker, err)
	}
}

// -----------------------------------------------------------------------------

// RecentSummaries returns the most recent summaries, oldest first.
func (p *Pipeline) RecentSummaries() []models.MForecastSummary {
	return p.Recent.GetAll()
}

// -----------------------------------------------------------------------------

// Strategies lists the available strategies.
func (p *Pipeline) Strategies() []forecast.StrategyInfo {
	return p.Forecaster.Registry.List()
}
