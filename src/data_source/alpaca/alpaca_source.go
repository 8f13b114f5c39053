package alpaca

import (
	"context"
	"errors"
	"strings"
	"time"

	"stock-forecaster/src/helpers"
	"stock-forecaster/src/logger"
	"stock-forecaster/src/models"
	"stock-forecaster/src/utils"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// BarsClient is the subset of the Alpaca market data client used here.
type BarsClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// AlpacaSource fetches daily bars from Alpaca's market data API. Bar
// timestamps are mapped to New York calendar dates.
type AlpacaSource struct {
	Client   BarsClient
	Location *time.Location
	Logger   *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAlpacaSource(cfg *models.MConfig) (*AlpacaSource, error) {
	ac := cfg.DataSource.Alpaca
	if ac.APIKey == "" || ac.APISecret == "" {
		return nil, helpers.NewConfigurationError("alpaca provider requires ALPACA_API_KEY and ALPACA_API_SECRET")
	}

	client := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    ac.APIKey,
		APISecret: ac.APISecret,
		BaseURL:   ac.BaseURL,
	})
	return NewAlpacaSourceWithClient(client), nil
}

// -----------------------------------------------------------------------------

func NewAlpacaSourceWithClient(client BarsClient) *AlpacaSource {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return &AlpacaSource{
		Client:   client,
		Location: loc,
		Logger:   logger.NewLogger(nil, "AlpacaSource"),
	}
}

// -----------------------------------------------------------------------------

func (s *AlpacaSource) Name() string {
	return "alpaca"
}

// -----------------------------------------------------------------------------

func (s *AlpacaSource) Fetch(ctx context.Context, ticker string, start, end time.Time) ([]models.MPricePoint, error) {
	if strings.TrimSpace(ticker) == "" {
		return nil, helpers.NewValidationError("ticker", "ticker must not be empty")
	}
	if !start.Before(end) {
		return nil, helpers.NewValidationError("range", "start must be before end")
	}
	if err := ctx.Err(); err != nil {
		return nil, helpers.NewDataUnavailableError(ticker, err)
	}

	bars, err := s.Client.GetBars(ticker, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     start,
		End:       end,
	})
	if err != nil {
		s.Logger.Warning("Fetch failed for %s: %v", ticker, err)
		return nil, helpers.NewDataUnavailableError(ticker, err)
	}

	points := make([]models.MPricePoint, 0, len(bars))
	for _, b := range bars {
		points = append(points, models.MPricePoint{
			Date:  utils.CalendarDate(b.Timestamp, s.Location),
			Close: b.Close,
		})
	}

	history := utils.NormalizeHistory(points)
	if len(history) == 0 {
		return nil, helpers.NewDataUnavailableError(ticker, errors.New("empty price history"))
	}
	return history, nil
}
