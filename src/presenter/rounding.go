package presenter

import (
	"stock-forecaster/src/models"

	"github.com/shopspring/decimal"
)

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// -----------------------------------------------------------------------------

// ForecastResponse builds the rounded form-submission payload.
func ForecastResponse(ticker, strategy string, pres *models.MPresentation) models.MForecastResponse {
	return models.MForecastResponse{
		Success:         true,
		Ticker:          ticker,
		Strategy:        strategy,
		Plot:            pres.Chart,
		CurrentPrice:    Round2(pres.Summary.LatestPrice),
		ForecastPrice:   Round2(pres.Summary.ForecastPrice),
		TrendPercentage: Round2(pres.Summary.TrendPercentage),
	}
}

// -----------------------------------------------------------------------------

// RoundedSummary returns s with every field rounded for JSON output.
func RoundedSummary(s models.MSummary) models.MSummary {
	return models.MSummary{
		LatestPrice:     Round2(s.LatestPrice),
		PreviousClose:   Round2(s.PreviousClose),
		PriceChange:     Round2(s.PriceChange),
		ForecastPrice:   Round2(s.ForecastPrice),
		TrendPercentage: Round2(s.TrendPercentage),
	}
}

// -----------------------------------------------------------------------------

// RoundedForecastSummary returns s with its prices rounded for JSON output.
func RoundedForecastSummary(s models.MForecastSummary) models.MForecastSummary {
	s.LatestPrice = Round2(s.LatestPrice)
	s.PreviousClose = Round2(s.PreviousClose)
	s.PriceChange = Round2(s.PriceChange)
	s.ForecastPrice = Round2(s.ForecastPrice)
	s.TrendPercentage = Round2(s.TrendPercentage)
	return s
}

// RoundedForecastSummaries rounds every summary in list.
func RoundedForecastSummaries(list []models.MForecastSummary) []models.MForecastSummary {
	out := make([]models.MForecastSummary, len(list))
	for i, s := range list {
		out[i] = RoundedForecastSummary(s)
	}
	return out
}
