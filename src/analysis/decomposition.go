package analysis

import (
	"math"

	"stock-forecaster/src/analysis/core"
	"stock-forecaster/src/models"
)

const DefaultDecompositionPeriod = 30

// -----------------------------------------------------------------------------

// Decompose splits closes into trend, seasonal and residual components
// additively. ok is false when the series is shorter than two periods.
func Decompose(closes []float64, period int) (*models.MDecomposition, bool) {
	if period < 2 || len(closes) < 2*period {
		return nil, false
	}

	trend := core.CenteredMovingAverage(closes, period)

	detrended := make([]float64, len(closes))
	for i, c := range closes {
		detrended[i] = c - trend[i]
	}
	phase := core.PhaseMeans(detrended, period)

	seasonal := make([]float64, len(closes))
	residual := make([]float64, len(closes))
	for i, c := range closes {
		seasonal[i] = phase[i%period]
		if math.IsNaN(trend[i]) {
			residual[i] = math.NaN()
			continue
		}
		residual[i] = c - trend[i] - seasonal[i]
	}

	return &models.MDecomposition{
		Period:   period,
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
	}, true
}
