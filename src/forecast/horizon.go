package forecast

import "time"

// DateFunc returns the n forecast dates following last.
type DateFunc func(last time.Time, n int) []time.Time

// CalendarDays returns the n consecutive calendar days after last.
func CalendarDays(last time.Time, n int) []time.Time {
	base := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = base.AddDate(0, 0, i+1)
	}
	return out
}
