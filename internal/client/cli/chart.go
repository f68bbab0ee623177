package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/registo/internal/client/report"
)

const (
	barChar     = "█"
	minBarWidth = 10
)

func (a *App) Chart(ctx context.Context) error {
	counts := report.CountByDay(a.visible())
	fmt.Fprintf(a.out, "Entries per day (%s)\n", a.period.Label())
	for _, line := range renderChart(counts, terminalWidth()) {
		fmt.Fprintln(a.out, line)
	}
	return nil
}

// renderChart draws one horizontal bar per day, scaled so the longest bar
// fits in width columns next to its label and count.
func renderChart(counts []report.DayCount, width int) []string {
	if len(counts) == 0 {
		return []string{"(no entries)"}
	}

	maxCount, countWidth := 0, 0
	for _, c := range counts {
		maxCount = max(maxCount, c.Count)
		countWidth = max(countWidth, len(fmt.Sprint(c.Count)))
	}

	labelWidth := len(report.DayLayout)
	barSpace := max(width-labelWidth-countWidth-3, minBarWidth)

	lines := make([]string, 0, len(counts))
	for _, c := range counts {
		n := c.Count * barSpace / maxCount
		if c.Count > 0 && n == 0 {
			n = 1
		}
		lines = append(lines, fmt.Sprintf("%s │%s %*d", c.Label(), strings.Repeat(barChar, n), countWidth, c.Count))
	}
	return lines
}
