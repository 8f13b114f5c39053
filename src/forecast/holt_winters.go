package forecast

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// HoltWinters is additive-trend, additive-seasonal exponential smoothing.
type HoltWinters struct {
	Period int
}

func NewHoltWinters(period int) *HoltWinters {
	if period < 2 {
		period = DefaultSeasonalPeriod
	}
	return &HoltWinters{Period: period}
}

func (h *HoltWinters) Name() string { return StrategyHoltWinters }

// MinHistory requires more than two full seasons.
func (h *HoltWinters) MinHistory() int { return 2*h.Period + 1 }

// -----------------------------------------------------------------------------

func (h *HoltWinters) Fit(closes []float64, _ []time.Time, horizon int) ([]float64, []float64, error) {
	objective := func(x []float64) float64 {
		s := h.smooth(closes, logistic(x[0]), logistic(x[1]), logistic(x[2]))
		return s.sse
	}
	x0 := []float64{logit(0.3), logit(0.1), logit(0.1)}
	x, err := minimize(objective, x0)
	if err != nil {
		return nil, nil, err
	}

	s := h.smooth(closes, logistic(x[0]), logistic(x[1]), logistic(x[2]))

	n, m := len(closes), h.Period
	forecast := make([]float64, horizon)
	for k := range forecast {
		forecast[k] = s.level + float64(k+1)*s.trend + s.seasonal[n-m+k%m]
	}
	return forecast, s.fitted, nil
}

// -----------------------------------------------------------------------------

type hwState struct {
	level    float64
	trend    float64
	seasonal []float64
	fitted   []float64
	sse      float64
}

// smooth runs the recursions from the end of the first season. The first
// season's fitted values equal the observations.
func (h *HoltWinters) smooth(y []float64, alpha, beta, gamma float64) hwState {
	n, m := len(y), h.Period

	first := stat.Mean(y[:m], nil)
	second := stat.Mean(y[m:2*m], nil)
	trend := (second - first) / float64(m)
	center := float64(m-1) / 2

	// The first-season mean sits at its midpoint; seasonal offsets are
	// measured against that line.
	st := hwState{
		level:    first + trend*center,
		trend:    trend,
		seasonal: make([]float64, n),
		fitted:   make([]float64, n),
	}
	for i := 0; i < m; i++ {
		st.seasonal[i] = y[i] - (first + trend*(float64(i)-center))
		st.fitted[i] = y[i]
	}

	for t := m; t < n; t++ {
		season := st.seasonal[t-m]
		pred := st.level + st.trend + season
		st.fitted[t] = pred
		err := y[t] - pred
		st.sse += err * err

		level := alpha*(y[t]-season) + (1-alpha)*(st.level+st.trend)
		st.trend = beta*(level-st.level) + (1-beta)*st.trend
		st.level = level
		st.seasonal[t] = gamma*(y[t]-level) + (1-gamma)*season
	}
	return st
}
