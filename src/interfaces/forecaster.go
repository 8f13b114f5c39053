package interfaces

import "time"

// -----------------------------------------------------------------------------
// IForecaster is one forecasting strategy.
// -----------------------------------------------------------------------------

type IForecaster interface {
	Name() string

	// MinHistory is the smallest history length Fit accepts.
	MinHistory() int

	// Fit estimates the model on closes and returns horizon predictions
	// plus in-sample fitted values aligned with closes. dates carries the
	// historical dates followed by the horizon forecast dates.
	Fit(closes []float64, dates []time.Time, horizon int) (forecast []float64, fitted []float64, err error)
}
