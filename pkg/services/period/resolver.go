// Package period resolves symbolic period tokens to concrete calendar ranges.
package period

import (
	"time"

	"github.com/edu-tools/report-atlas/pkg/models/domain"
)

// Resolve maps a period token to inclusive calendar-date bounds relative to
// now. "all-time", "custom" and unrecognized tokens resolve to an unbounded
// range; custom bounds are supplied by the caller, not derived here.
// Pure: no I/O, deterministic for a fixed now.
func Resolve(token domain.PeriodToken, now time.Time) domain.DateRange {
	y, m, _ := now.Date()
	loc := now.Location()

	switch token {
	case domain.PeriodCurrentMonth:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return monthsRange(start, 1)
	case domain.PeriodLastMonth:
		start := time.Date(y, m-1, 1, 0, 0, 0, 0, loc)
		return monthsRange(start, 1)
	case domain.PeriodCurrentQuarter:
		start := time.Date(y, quarterStartMonth(m), 1, 0, 0, 0, 0, loc)
		return monthsRange(start, 3)
	case domain.PeriodLastQuarter:
		// Month arithmetic only: time.Date normalizes a non-positive month
		// into the previous year, so Q1 rolls back to Q4 correctly.
		start := time.Date(y, quarterStartMonth(m)-3, 1, 0, 0, 0, 0, loc)
		return monthsRange(start, 3)
	case domain.PeriodCurrentYear:
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		return monthsRange(start, 12)
	case domain.PeriodLastYear:
		start := time.Date(y-1, time.January, 1, 0, 0, 0, 0, loc)
		return monthsRange(start, 12)
	default:
		return domain.DateRange{}
	}
}

func quarterStartMonth(m time.Month) time.Month {
	return time.Month((int(m)-1)/3*3 + 1)
}

// monthsRange spans n whole months from start, inclusive of the last day.
func monthsRange(start time.Time, n int) domain.DateRange {
	end := start.AddDate(0, n, 0).AddDate(0, 0, -1)
	return domain.DateRange{Start: &start, End: &end}
}
