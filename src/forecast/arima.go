package forecast

import (
	"math"
	"time"
)

// ARIMA is an ARIMA(1,1,1) model without constant, estimated by
// conditional sum of squares on the first differences.
type ARIMA struct{}

func NewARIMA() *ARIMA { return &ARIMA{} }

func (ARIMA) Name() string    { return StrategyARIMA }
func (ARIMA) MinHistory() int { return 3 }

// -----------------------------------------------------------------------------

func (a ARIMA) Fit(closes []float64, _ []time.Time, horizon int) ([]float64, []float64, error) {
	n := len(closes)
	diff := make([]float64, n-1)
	for i := range diff {
		diff[i] = closes[i+1] - closes[i]
	}

	objective := func(x []float64) float64 {
		_, sse := armaResiduals(diff, math.Tanh(x[0]), math.Tanh(x[1]))
		return sse
	}
	x, err := minimize(objective, []float64{0, 0})
	if err != nil {
		return nil, nil, err
	}
	phi, theta := math.Tanh(x[0]), math.Tanh(x[1])
	resid, _ := armaResiduals(diff, phi, theta)

	// fitted[i+1] is the one-step prediction of closes[i+1] made at i.
	fitted := make([]float64, n)
	fitted[0] = closes[0]
	for i := range diff {
		fitted[i+1] = closes[i] + diff[i] - resid[i]
	}

	forecast := make([]float64, horizon)
	last := closes[n-1]
	step := phi*diff[len(diff)-1] + theta*resid[len(resid)-1]
	for h := range forecast {
		if h > 0 {
			step = phi * step
		}
		last += step
		forecast[h] = last
	}
	return forecast, fitted, nil
}

// -----------------------------------------------------------------------------

// armaResiduals computes ARMA(1,1) innovations of d with the pre-sample
// values set to zero. sse excludes the first residual, which does not
// depend on the parameters.
func armaResiduals(d []float64, phi, theta float64) ([]float64, float64) {
	e := make([]float64, len(d))
	e[0] = d[0]
	sse := 0.0
	for i := 1; i < len(d); i++ {
		e[i] = d[i] - phi*d[i-1] - theta*e[i-1]
		sse += e[i] * e[i]
	}
	return e, sse
}
