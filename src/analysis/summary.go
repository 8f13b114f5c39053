package analysis

import (
	"stock-forecaster/src/analysis/core"
	"stock-forecaster/src/models"
)

// Summarize computes the headline numbers. The price change is zero when
// history has a single point.
func Summarize(history []models.MPricePoint, result *models.MForecastResult) models.MSummary {
	var s models.MSummary
	if len(history) == 0 {
		return s
	}

	s.LatestPrice = history[len(history)-1].Close
	s.PreviousClose = s.LatestPrice
	if len(history) > 1 {
		s.PreviousClose = history[len(history)-2].Close
	}
	s.PriceChange = s.LatestPrice - s.PreviousClose

	if result != nil && len(result.Forecast) > 0 {
		s.ForecastPrice = result.Forecast[len(result.Forecast)-1].PredictedClose
		s.TrendPercentage = core.CalculateChangePercent(s.ForecastPrice, s.LatestPrice)
	}
	return s
}
