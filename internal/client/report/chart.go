package report

import (
	"slices"
	"time"

	"github.com/dmitrijs2005/registo/internal/client/models"
)

// DayLayout renders a calendar day the way the pt-PT locale does.
const DayLayout = "02/01/2006"

// DayCount is one bar of the entries-per-day chart.
type DayCount struct {
	Day   time.Time
	Count int
}

func (d DayCount) Label() string { return d.Day.Format(DayLayout) }

// CountByDay groups entries by local calendar day and returns the counts in
// ascending day order. Entries without a parseable date are skipped.
func CountByDay(entries []models.Entry) []DayCount {
	counts := make(map[time.Time]int)
	for _, e := range entries {
		t, ok := e.Time()
		if !ok {
			continue
		}
		y, m, d := t.Date()
		counts[time.Date(y, m, d, 0, 0, 0, 0, time.Local)]++
	}

	out := make([]DayCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, DayCount{Day: day, Count: n})
	}
	slices.SortFunc(out, func(a, b DayCount) int { return a.Day.Compare(b.Day) })
	return out
}
