package models

// MForecastResponse answers POST /.
type MForecastResponse struct {
	Success         bool    `json:"success"`
	Ticker          string  `json:"ticker"`
	Strategy        string  `json:"strategy"`
	Plot            *MChart `json:"plot"`
	CurrentPrice    float64 `json:"current_price"`
	ForecastPrice   float64 `json:"forecast_price"`
	TrendPercentage float64 `json:"trend_percentage"`
}

// MDashboardData answers /api/dashboard_data/:ticker.
type MDashboardData struct {
	Success         bool           `json:"success"`
	Ticker          string         `json:"ticker"`
	Strategy        string         `json:"strategy"`
	Dashboard       *MChart        `json:"dashboard"`
	LatestPrice     float64        `json:"latest_price"`
	PriceChange     float64        `json:"price_change"`
	ForecastPrice   float64        `json:"forecast_price"`
	TrendPercentage float64        `json:"trend_percentage"`
	HistoricalData  []float64      `json:"historical_data"`
	HistoricalDates []string       `json:"historical_dates"`
	ForecastData    []float64      `json:"forecast_data"`
	ForecastDates   []string       `json:"forecast_dates"`
	Signals         []MSignalPoint `json:"signals,omitempty"`
}

// MErrorResponse is the uniform failure shape.
type MErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
}
