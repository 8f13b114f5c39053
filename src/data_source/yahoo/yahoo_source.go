package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stock-forecaster/src/helpers"
	"stock-forecaster/src/interfaces"
	"stock-forecaster/src/logger"
	"stock-forecaster/src/models"
	"stock-forecaster/src/network"
	"stock-forecaster/src/utils"

	"github.com/tidwall/gjson"
)

const DefaultBaseURL = "https://query1.finance.yahoo.com"

type YahooFinanceSource struct {
	Config  *models.MConfig
	BaseURL string
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) Name() string {
	return "yahoo"
}

// -----------------------------------------------------------------------------

func NewYahooFinanceSource(cfg *models.MConfig, netMgr interfaces.INetworkManager) *YahooFinanceSource {
	base := strings.TrimRight(cfg.DataSource.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &YahooFinanceSource{
		Config:  cfg,
		BaseURL: base,
		Network: netMgr,
		Logger:  logger.NewLogger(cfg, "YahooFinanceSource"),
	}
}

// -----------------------------------------------------------------------------

// Fetch downloads daily closes for ticker between start and end.
func (s *YahooFinanceSource) Fetch(ctx context.Context, ticker string, start, end time.Time) ([]models.MPricePoint, error) {
	if strings.TrimSpace(ticker) == "" {
		return nil, helpers.NewValidationError("ticker", "ticker must not be empty")
	}
	if !start.Before(end) {
		return nil, helpers.NewValidationError("range", "start must be before end")
	}

	params := map[string]string{
		"period1":  strconv.FormatInt(start.Unix(), 10),
		"period2":  strconv.FormatInt(end.Unix(), 10),
		"interval": "1d",
		"events":   "history",
	}
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", s.BaseURL, url.PathEscape(ticker))

	respBytes, err := s.Network.Get(ctx, endpoint, params)
	if err != nil {
		var se *network.StatusError
		if errors.As(err, &se) {
			if desc := gjson.GetBytes(se.Body, "chart.error.description"); desc.Exists() {
				err = fmt.Errorf("yahoo api error (%d): %s", se.StatusCode, desc.String())
			}
		}
		s.Logger.Warning("Fetch failed for %s: %v", ticker, err)
		return nil, helpers.NewDataUnavailableError(ticker, err)
	}

	history, err := s.parseChartResponse(ticker, respBytes)
	if err != nil {
		return nil, helpers.NewDataUnavailableError(ticker, err)
	}
	if len(history) == 0 {
		return nil, helpers.NewDataUnavailableError(ticker, errors.New("empty price history"))
	}

	s.Logger.Debug("Fetched %d daily closes for %s", len(history), ticker)
	return history, nil
}

// -----------------------------------------------------------------------------

type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency             string `json:"currency"`
				Symbol               string `json:"symbol"`
				ExchangeName         string `json:"exchangeName"`
				Gmtoffset            int    `json:"gmtoffset"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
				DataGranularity      string `json:"dataGranularity"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"` // Use pointers to handle null
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) parseChartResponse(symbol string, data []byte) ([]models.MPricePoint, error) {
	var resp YahooChartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s - %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}

	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no result in response for %s", symbol)
	}

	result := resp.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote data in response for %s", symbol)
	}

	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return nil, fmt.Errorf("data alignment error for %s", symbol)
	}

	loc := exchangeLocation(result.Meta.ExchangeTimezoneName, result.Meta.Gmtoffset)

	points := make([]models.MPricePoint, 0, len(closes))
	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue
		}
		points = append(points, models.MPricePoint{
			Date:  utils.CalendarDate(time.Unix(ts, 0), loc),
			Close: *closes[i],
		})
	}

	return utils.NormalizeHistory(points), nil
}

// -----------------------------------------------------------------------------

func exchangeLocation(name string, gmtoffset int) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.FixedZone("exchange", gmtoffset)
}
