package core

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// -----------------------------------------------------------------------------

// CenteredMovingAverage returns the centred moving average of data over
// period. An even period uses the 2xm filter with half weights at both
// ends. Positions without a full window are NaN.
func CenteredMovingAverage(data []float64, period int) []float64 {
	n := len(data)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	if period < 1 || n == 0 {
		return out
	}

	half := period / 2
	for t := half; t < n-half; t++ {
		if period%2 == 1 {
			out[t] = floats.Sum(data[t-half:t+half+1]) / float64(period)
			continue
		}
		sum := 0.5*data[t-half] + 0.5*data[t+half]
		sum += floats.Sum(data[t-half+1 : t+half])
		out[t] = sum / float64(period)
	}
	return out
}

// -----------------------------------------------------------------------------

// PhaseMeans averages the finite values of data by position modulo period
// and shifts the result to zero mean.
func PhaseMeans(data []float64, period int) []float64 {
	sums := make([]float64, period)
	counts := make([]float64, period)
	for i, v := range data {
		if math.IsNaN(v) {
			continue
		}
		sums[i%period] += v
		counts[i%period]++
	}

	means := make([]float64, period)
	for p := range means {
		if counts[p] > 0 {
			means[p] = sums[p] / counts[p]
		}
	}
	floats.AddConst(-stat.Mean(means, nil), means)
	return means
}
