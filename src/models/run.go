package models

// MForecastRun is a persisted record of one completed forecast.
type MForecastRun struct {
	ID              string  `db:"id" json:"id"`
	Ticker          string  `db:"ticker" json:"ticker"`
	Strategy        string  `db:"strategy" json:"strategy"`
	HorizonDays     int     `db:"horizon_days" json:"horizon_days"`
	HistoryPoints   int     `db:"history_points" json:"history_points"`
	LastClose       float64 `db:"last_close" json:"last_close"`
	ForecastPrice   float64 `db:"forecast_price" json:"forecast_price"`
	TrendPercentage float64 `db:"trend_percentage" json:"trend_percentage"`
	ForecastJSON    string  `db:"forecast_json" json:"forecast_json"`
	CreatedAt       int64   `db:"created_at" json:"created_at"`
}

// MForecastSummary is pushed to websocket clients and kept in the recent buffer.
type MForecastSummary struct {
	RunID           string  `json:"run_id"`
	Ticker          string  `json:"ticker"`
	Strategy        string  `json:"strategy"`
	LatestPrice     float64 `json:"latest_price"`
	PreviousClose   float64 `json:"previous_close"`
	PriceChange     float64 `json:"price_change"`
	ForecastPrice   float64 `json:"forecast_price"`
	TrendPercentage float64 `json:"trend_percentage"`
	HorizonDays     int     `json:"horizon_days"`
	GeneratedAt     int64   `json:"generated_at"`
}
