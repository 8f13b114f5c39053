package core

import (
	"math"
	"testing"
)

func TestCenteredMovingAverageEven(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	got := CenteredMovingAverage(data, 4)
	// t=2: (0.5*1 + 2 + 3 + 4 + 0.5*5) / 4 = 3
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) || !math.IsNaN(got[4]) || !math.IsNaN(got[5]) {
		t.Errorf("edges should be NaN: %v", got)
	}
	if math.Abs(got[2]-3) > 1e-12 || math.Abs(got[3]-4) > 1e-12 {
		t.Errorf("interior = %v", got)
	}
}

func TestCenteredMovingAverageOdd(t *testing.T) {
	got := CenteredMovingAverage([]float64{3, 6, 9, 12}, 3)
	if math.Abs(got[1]-6) > 1e-12 || math.Abs(got[2]-9) > 1e-12 {
		t.Errorf("got %v", got)
	}
}

func TestPhaseMeansZeroMean(t *testing.T) {
	data := []float64{math.NaN(), 1, -1, 2, 1, -1, 2, 1}
	got := PhaseMeans(data, 3)
	sum := got[0] + got[1] + got[2]
	if math.Abs(sum) > 1e-12 {
		t.Errorf("phase means should sum to zero, got %v", got)
	}
}

func TestCalculateChangePercent(t *testing.T) {
	if got := CalculateChangePercent(110, 100); math.Abs(got-10) > 1e-12 {
		t.Errorf("got %v", got)
	}
	if got := CalculateChangePercent(5, 0); got != 0 {
		t.Errorf("zero base: %v", got)
	}
}

func TestCompareToFitted(t *testing.T) {
	cases := []struct {
		actual, fitted float64
		want           int
	}{
		{99, 100, 1},
		{101, 100, -1},
		{100, 100, 0},
		{100 + 1e-12, 100, 0},
	}
	for _, c := range cases {
		if got := CompareToFitted(c.actual, c.fitted); got != c.want {
			t.Errorf("CompareToFitted(%v, %v) = %d, want %d", c.actual, c.fitted, got, c.want)
		}
	}
}

