package presenter

import "stock-forecaster/src/models"

func buildDashboard(ticker, strategy string, history []models.MPricePoint, result *models.MForecastResult, pres *models.MPresentation) *models.MDashboardData {
	d := &models.MDashboardData{
		Success:         true,
		Ticker:          ticker,
		Strategy:        strategy,
		Dashboard:       pres.Chart,
		LatestPrice:     Round2(pres.Summary.LatestPrice),
		PriceChange:     Round2(pres.Summary.PriceChange),
		ForecastPrice:   Round2(pres.Summary.ForecastPrice),
		TrendPercentage: Round2(pres.Summary.TrendPercentage),
		HistoricalData:  models.Closes(history),
		HistoricalDates: make([]string, len(history)),
		ForecastData:    make([]float64, len(result.Forecast)),
		ForecastDates:   make([]string, len(result.Forecast)),
		Signals:         pres.Signals,
	}
	for i, p := range history {
		d.HistoricalDates[i] = models.DateString(p.Date)
	}
	for i, p := range result.Forecast {
		d.ForecastDates[i] = models.DateString(p.Date)
		d.ForecastData[i] = p.PredictedClose
	}
	return d
}
