package utils

import (
	"math"
	"sort"
	"time"

	"stock-forecaster/src/models"
)

// -----------------------------------------------------------------------------

// CalendarDate truncates t to its calendar date in loc and returns that
// date at UTC midnight.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// -----------------------------------------------------------------------------

// NormalizeHistory sorts points by date, keeps the last sample for each
// date and drops non-finite or non-positive closes.
func NormalizeHistory(points []models.MPricePoint) []models.MPricePoint {
	byDate := make(map[time.Time]float64, len(points))
	for _, p := range points {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) || p.Close <= 0 {
			continue
		}
		byDate[p.Date] = p.Close
	}

	out := make([]models.MPricePoint, 0, len(byDate))
	for d, c := range byDate {
		out = append(out, models.MPricePoint{Date: d, Close: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
