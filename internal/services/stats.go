package services

import (
	"math"
	"time"
)

type timeSpan struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// averageDays is the mean of UpdatedAt-CreatedAt in days, rounded to one decimal. Zero when empty.
func averageDays(spans []timeSpan) float64 {
	if len(spans) == 0 {
		return 0
	}
	var total time.Duration
	for _, s := range spans {
		total += s.UpdatedAt.Sub(s.CreatedAt)
	}
	days := total.Hours() / 24 / float64(len(spans))
	return round1(days)
}

// percentage of part in whole, rounded to one decimal. Zero when whole is zero.
func percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return round1(float64(part) / float64(whole) * 100)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
