package forecast

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Linear fits an ordinary least-squares line over the observation index
// and extrapolates it.
type Linear struct{}

func NewLinear() *Linear { return &Linear{} }

func (Linear) Name() string    { return StrategyLinear }
func (Linear) MinHistory() int { return 2 }

func (Linear) Fit(closes []float64, _ []time.Time, horizon int) ([]float64, []float64, error) {
	n := len(closes)
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}

	intercept, slope := stat.LinearRegression(x, closes, nil, false)

	fitted := make([]float64, n)
	for i := range fitted {
		fitted[i] = intercept + slope*float64(i)
	}
	forecast := make([]float64, horizon)
	for h := range forecast {
		forecast[h] = intercept + slope*float64(n+h)
	}
	return forecast, fitted, nil
}
