package analysis

import (
	"stock-forecaster/src/analysis/core"
	"stock-forecaster/src/models"
)

// Signals compares each close with the model's in-sample prediction for the
// same date. fitted must be aligned with history.
func Signals(history []models.MPricePoint, fitted []float64) []models.MSignalPoint {
	n := len(history)
	if len(fitted) < n {
		n = len(fitted)
	}
	out := make([]models.MSignalPoint, n)
	for i := 0; i < n; i++ {
		out[i] = models.MSignalPoint{
			Date:   models.DateString(history[i].Date),
			Signal: core.CompareToFitted(history[i].Close, fitted[i]),
		}
	}
	return out
}
