package models

import "time"

// MPricePoint is one daily close. Date is a timezone-naive calendar date
// stored at UTC midnight.
type MPricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// MForecastPoint is one predicted close for a future date.
type MForecastPoint struct {
	Date           time.Time `json:"date"`
	PredictedClose float64   `json:"predicted_close"`
}

// MForecastResult is what a strategy produces. Fitted is aligned
// index-for-index with the history it was fitted on.
type MForecastResult struct {
	Strategy string           `json:"strategy"`
	Forecast []MForecastPoint `json:"forecast"`
	Fitted   []float64        `json:"fitted"`
}

// Closes extracts the close series.
func Closes(history []MPricePoint) []float64 {
	out := make([]float64, len(history))
	for i, p := range history {
		out[i] = p.Close
	}
	return out
}

// DateString formats a calendar date the way every payload does.
func DateString(t time.Time) string {
	return t.Format("2006-01-02")
}
