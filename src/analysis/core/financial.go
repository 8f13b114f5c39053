package core

// -----------------------------------------------------------------------------

// CalculateChangePercent calculates percentage change, scaled to 100.
func CalculateChangePercent(current, previous float64) float64 {
	if previous == 0 {
		return 0.0
	}
	return (current - previous) / previous * 100
}

// -----------------------------------------------------------------------------

// CompareToFitted returns +1 when actual is below fitted, -1 when above and
// 0 when they agree within a relative tolerance of 1e-9.
func CompareToFitted(actual, fitted float64) int {
	diff := actual - fitted
	scale := fitted
	if scale < 0 {
		scale = -scale
	}
	if scale < 1 {
		scale = 1
	}
	switch {
	case diff < -1e-9*scale:
		return 1
	case diff > 1e-9*scale:
		return -1
	default:
		return 0
	}
}
