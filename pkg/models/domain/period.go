package domain

import (
	"fmt"
	"strings"
	"time"
)

// PeriodToken is a symbolic time-range selector chosen in the configure step.
type PeriodToken string

const (
	PeriodAllTime        PeriodToken = "all-time"
	PeriodCurrentMonth   PeriodToken = "current-month"
	PeriodLastMonth      PeriodToken = "last-month"
	PeriodCurrentQuarter PeriodToken = "current-quarter"
	PeriodLastQuarter    PeriodToken = "last-quarter"
	PeriodCurrentYear    PeriodToken = "current-year"
	PeriodLastYear       PeriodToken = "last-year"
	PeriodCustom         PeriodToken = "custom"
)

// PeriodTokens lists the selectable tokens in wizard display order.
func PeriodTokens() []PeriodToken {
	return []PeriodToken{
		PeriodAllTime,
		PeriodCurrentMonth,
		PeriodLastMonth,
		PeriodCurrentQuarter,
		PeriodLastQuarter,
		PeriodCurrentYear,
		PeriodLastYear,
		PeriodCustom,
	}
}

func ParsePeriodToken(s string) (PeriodToken, error) {
	for _, p := range PeriodTokens() {
		if s == string(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// DisplayName renders a token for report headers: "all-time" is the literal
// "All Time", everything else is the token with hyphens replaced by spaces
// and each word capitalized.
func (p PeriodToken) DisplayName() string {
	if p == PeriodAllTime {
		return "All Time"
	}
	words := strings.Split(string(p), "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// DateRange holds inclusive calendar-date bounds. A nil bound means the range
// is unbounded on that side.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

func (r DateRange) IsUnbounded() bool {
	return r.Start == nil && r.End == nil
}

// StartISO returns the start bound as YYYY-MM-DD, or "" when unbounded.
func (r DateRange) StartISO() string {
	if r.Start == nil {
		return ""
	}
	return r.Start.Format("2006-01-02")
}

// EndISO returns the end bound as YYYY-MM-DD, or "" when unbounded.
func (r DateRange) EndISO() string {
	if r.End == nil {
		return ""
	}
	return r.End.Format("2006-01-02")
}

// ReportFilter restricts a report query to a startup and a date range.
// An empty or "all" startup id means no startup restriction.
type ReportFilter struct {
	StartupID string
	Range     DateRange
}

// EffectiveStartupID normalizes the "all" sentinel away.
func (f ReportFilter) EffectiveStartupID() string {
	if f.StartupID == "all" {
		return ""
	}
	return f.StartupID
}
