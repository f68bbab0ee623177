package cli

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/registo/internal/client/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time { return time.Date(2024, 5, d, 0, 0, 0, 0, time.Local) }

func TestRenderChart_Empty(t *testing.T) {
	assert.Equal(t, []string{"(no entries)"}, renderChart(nil, 80))
}

func TestRenderChart_ScalesToWidth(t *testing.T) {
	counts := []report.DayCount{{Day: day(1), Count: 1}, {Day: day(2), Count: 4}, {Day: day(3), Count: 2}}

	lines := renderChart(counts, 40)
	require.Len(t, lines, 3)

	assert.True(t, strings.HasPrefix(lines[0], "01/05/2024 │"))
	assert.True(t, strings.HasPrefix(lines[1], "02/05/2024 │"))
	assert.True(t, strings.HasSuffix(lines[1], " 4"))

	bars := make([]int, len(lines))
	for i, l := range lines {
		bars[i] = strings.Count(l, barChar)
	}
	assert.Greater(t, bars[1], bars[2])
	assert.Greater(t, bars[2], bars[0])
	assert.LessOrEqual(t, utf8.RuneCountInString(lines[1]), 40)
}

func TestRenderChart_NarrowTerminalKeepsMinimumBar(t *testing.T) {
	lines := renderChart([]report.DayCount{{Day: day(1), Count: 3}}, 5)
	require.Len(t, lines, 1)
	assert.Equal(t, minBarWidth, strings.Count(lines[0], barChar))
}

func TestRenderChart_SmallCountsStillVisible(t *testing.T) {
	lines := renderChart([]report.DayCount{{Day: day(1), Count: 1}, {Day: day(2), Count: 1000}}, 30)
	assert.Equal(t, 1, strings.Count(lines[0], barChar))
}
