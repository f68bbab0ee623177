// Package report turns the entry list into what the view layer shows:
// period filters, per-day counts for the chart, and spreadsheet rows.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/registo/internal/client/models"
)

// Period selects which entries are shown, charted and exported.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

const (
	week  = 7 * 24 * time.Hour
	month = 30 * 24 * time.Hour
)

// Periods lists the supported periods in menu order.
var Periods = []Period{PeriodAll, PeriodDay, PeriodWeek, PeriodMonth}

func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Periods {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown period %q (want all, day, week or month)", s)
}

// Label is the human-readable name used in prompts and headings.
func (p Period) Label() string {
	switch p {
	case PeriodDay:
		return "today"
	case PeriodWeek:
		return "last week"
	case PeriodMonth:
		return "last month"
	default:
		return "all"
	}
}

// Since returns the inclusive lower bound of p at now and false for PeriodAll.
// The day period starts at local midnight; week and month are fixed windows
// of 7 and 30 days, not calendar units.
func (p Period) Since(now time.Time) (time.Time, bool) {
	switch p {
	case PeriodDay:
		y, m, d := now.Local().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.Local), true
	case PeriodWeek:
		return now.Add(-week), true
	case PeriodMonth:
		return now.Add(-month), true
	default:
		return time.Time{}, false
	}
}

// FilterByPeriod keeps the entries dated at or after the start of p. PeriodAll
// returns entries unchanged; the other periods drop entries whose date cannot
// be parsed.
func FilterByPeriod(entries []models.Entry, p Period, now time.Time) []models.Entry {
	since, bounded := p.Since(now)
	if !bounded {
		return entries
	}

	out := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		t, ok := e.Time()
		if ok && !t.Before(since) {
			out = append(out, e)
		}
	}
	return out
}
