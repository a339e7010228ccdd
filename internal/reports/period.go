package reports

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownPeriod is returned by ParsePeriod for unsupported names.
var ErrUnknownPeriod = errors.New("unknown report period")

// Period selects the window of tickets a report covers.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodAnnual  Period = "annual"
)

// weekWindow is a rolling window, not a calendar week.
const weekWindow = 7 * 24 * time.Hour

// ParsePeriod parses a period name; the empty string means daily.
func ParsePeriod(raw string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return PeriodDaily, nil
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAnnual:
		return p, nil
	default:
		return "", fmt.Errorf("%q: %w", raw, ErrUnknownPeriod)
	}
}

// InPeriod reports whether a ticket dated at falls inside the period that
// contains now. Calendar comparisons use now's location.
//
// Weekly keeps every ticket less than 7×24h older than now, including
// tickets dated after now.
func InPeriod(at time.Time, period Period, now time.Time) bool {
	local := at.In(now.Location())
	switch period {
	case PeriodDaily:
		y1, m1, d1 := local.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case PeriodWeekly:
		return now.Sub(at) < weekWindow
	case PeriodMonthly:
		return local.Year() == now.Year() && local.Month() == now.Month()
	case PeriodAnnual:
		return local.Year() == now.Year()
	default:
		return true
	}
}

// Filter returns the tickets inside the period, keeping input order.
func Filter(tickets []Ticket, period Period, now time.Time) []Ticket {
	out := make([]Ticket, 0, len(tickets))
	for _, t := range tickets {
		if InPeriod(t.Date, period, now) {
			out = append(out, t)
		}
	}
	return out
}
