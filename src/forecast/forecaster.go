package forecast

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"stock-forecaster/src/helpers"
	"stock-forecaster/src/logger"
	"stock-forecaster/src/models"
	"stock-forecaster/src/utils"
)

// Horizon modes.
const (
	HorizonCalendar = "calendar"
	HorizonTrading  = "trading"
)

// Forecaster validates inputs, dispatches to a strategy and stamps the
// forecast dates.
type Forecaster struct {
	Registry    *Registry
	HorizonMode string
	Logger      *logger.Logger
}

// -----------------------------------------------------------------------------

func NewForecaster(cfg *models.MConfig) *Forecaster {
	period := cfg.Forecast.SeasonalPeriod
	if period < 2 {
		period = DefaultSeasonalPeriod
	}
	mode := cfg.Forecast.HorizonMode
	if mode == "" {
		mode = HorizonCalendar
	}
	return &Forecaster{
		Registry:    NewRegistry(period),
		HorizonMode: mode,
		Logger:      logger.NewLogger(cfg, "Forecaster"),
	}
}

// -----------------------------------------------------------------------------

// Forecast projects history horizonDays calendar days ahead.
func (f *Forecaster) Forecast(history []models.MPricePoint, horizonDays int, strategy string) (*models.MForecastResult, error) {
	return f.run(history, horizonDays, strategy, CalendarDays)
}

// -----------------------------------------------------------------------------

// ForecastTicker is Forecast with the configured horizon mode. In trading
// mode the dates follow the exchange calendar of ticker.
func (f *Forecaster) ForecastTicker(ticker string, history []models.MPricePoint, horizonDays int, strategy string) (*models.MForecastResult, error) {
	if f.HorizonMode == HorizonTrading {
		cal := utils.GetCalendar(ticker)
		return f.run(history, horizonDays, strategy, cal.NextTradingDays)
	}
	return f.run(history, horizonDays, strategy, CalendarDays)
}

// -----------------------------------------------------------------------------

func (f *Forecaster) run(history []models.MPricePoint, horizonDays int, strategy string, next DateFunc) (*models.MForecastResult, error) {
	strategy = strings.ToLower(strings.TrimSpace(strategy))

	model, err := f.Registry.Get(strategy)
	if err != nil {
		return nil, err
	}
	if horizonDays <= 0 {
		return nil, helpers.NewForecastError(strategy, fmt.Errorf("horizon must be positive, got %d", horizonDays))
	}
	if len(history) < model.MinHistory() {
		return nil, helpers.NewForecastError(strategy,
			fmt.Errorf("need at least %d observations, got %d", model.MinHistory(), len(history)))
	}

	closes := models.Closes(history)
	future := next(history[len(history)-1].Date, horizonDays)

	dates := make([]time.Time, 0, len(history)+len(future))
	for _, p := range history {
		dates = append(dates, p.Date)
	}
	dates = append(dates, future...)

	predicted, fitted, err := model.Fit(closes, dates, horizonDays)
	if err != nil {
		var fe *helpers.ForecastError
		if errors.As(err, &fe) {
			return nil, err
		}
		return nil, helpers.NewForecastError(strategy, err)
	}
	if len(predicted) != horizonDays || len(fitted) != len(history) {
		return nil, helpers.NewForecastError(strategy,
			fmt.Errorf("model returned %d predictions and %d fitted values", len(predicted), len(fitted)))
	}
	if !allFinite(predicted) || !allFinite(fitted) {
		return nil, helpers.NewForecastError(strategy, errors.New("model produced non-finite values"))
	}

	points := make([]models.MForecastPoint, horizonDays)
	for i := range points {
		points[i] = models.MForecastPoint{Date: future[i], PredictedClose: predicted[i]}
	}

	f.Logger.Debug("%s: %d observations -> %d forecast points", strategy, len(history), horizonDays)
	return &models.MForecastResult{Strategy: strategy, Forecast: points, Fitted: fitted}, nil
}

// -----------------------------------------------------------------------------

func allFinite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
