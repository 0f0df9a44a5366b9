// internal/app/system/changeind/changeind.go
//
// Package changeind computes dashboard change indicators: a metric over
// the two adjacent halves of a lookback window and the percentage
// difference between them.
package changeind

import (
	"math"
	"time"
)

// Positions reported alongside a percentage difference.
const (
	PositionUp    = "up"
	PositionDown  = "down"
	PositionEqual = "equal"
)

// Indicator is the computed change between the previous and current
// half-windows.
type Indicator struct {
	Previous   int64   `json:"previous"`
	Current    int64   `json:"current"`
	Percentage float64 `json:"percentage"`
	Position   string  `json:"position"`
}

// Window is a [Start, End) half of a change-indicator period.
type Window struct {
	Start time.Time
	End   time.Time
}

// SplitPeriod divides the last `days` days ending at now into the
// previous and current halves. A 30-day period compares days -30..-15
// against days -15..now.
func SplitPeriod(now time.Time, days int) (previous, current Window) {
	half := time.Duration(days) * 24 * time.Hour / 2
	mid := now.Add(-half)
	start := now.Add(-2 * half)
	return Window{Start: start, End: mid}, Window{Start: mid, End: now}
}

// Compute builds an Indicator from the two half-window values.
// A zero previous value yields 0% for zero current and 100% otherwise;
// it never divides by zero.
func Compute(previous, current int64) Indicator {
	ind := Indicator{Previous: previous, Current: current}

	switch {
	case current > previous:
		ind.Position = PositionUp
	case current < previous:
		ind.Position = PositionDown
	default:
		ind.Position = PositionEqual
	}

	ind.Percentage = PercentageDiff(previous, current)
	return ind
}

// PercentageDiff returns the absolute percentage change from previous to
// current, rounded to two decimals.
func PercentageDiff(previous, current int64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	diff := math.Abs(float64(current)-float64(previous)) / float64(previous) * 100
	return math.Round(diff*100) / 100
}
