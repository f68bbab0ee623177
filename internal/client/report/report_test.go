package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/dmitrijs2005/registo/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func local(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.Local)
}

func ids(entries []models.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func sample() []models.Entry {
	return []models.Entry{
		{ID: "jan01", DataHora: "2024-01-01T10:00"},
		{ID: "jan15", DataHora: "2024-01-15T10:00"},
		{ID: "jan15b", DataHora: "2024-01-15T23:59"},
		{ID: "dec20", DataHora: "2023-12-20T09:00"},
		{ID: "broken", DataHora: "not a date"},
	}
}

func TestFilterByPeriod_WeekScenario(t *testing.T) {
	entries := []models.Entry{
		{ID: "first", DataHora: "2024-01-01T10:00"},
		{ID: "second", DataHora: "2024-01-15T10:00"},
	}

	got := FilterByPeriod(entries, PeriodWeek, local(2024, 1, 16, 0, 0))
	assert.Equal(t, []string{"second"}, ids(got))
}

func TestFilterByPeriod_Day(t *testing.T) {
	got := FilterByPeriod(sample(), PeriodDay, local(2024, 1, 15, 12, 0))
	assert.Equal(t, []string{"jan15", "jan15b"}, ids(got))
}

func TestFilterByPeriod_MonthIsThirtyDays(t *testing.T) {
	now := local(2024, 1, 19, 9, 0)
	got := FilterByPeriod(sample(), PeriodMonth, now)
	assert.Equal(t, []string{"jan01", "jan15", "jan15b", "dec20"}, ids(got))

	got = FilterByPeriod(sample(), PeriodMonth, now.Add(time.Minute))
	assert.Equal(t, []string{"jan01", "jan15", "jan15b"}, ids(got))
}

func TestFilterByPeriod_AllIsIdentity(t *testing.T) {
	in := sample()
	assert.Equal(t, in, FilterByPeriod(in, PeriodAll, time.Now()))
}

func TestFilterByPeriod_Idempotent(t *testing.T) {
	now := local(2024, 1, 16, 0, 0)
	for _, p := range Periods {
		once := FilterByPeriod(sample(), p, now)
		twice := FilterByPeriod(once, p, now)
		assert.Equal(t, ids(once), ids(twice), "period %s", p)
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod(" Week ")
	require.NoError(t, err)
	assert.Equal(t, PeriodWeek, p)

	_, err = ParsePeriod("year")
	require.Error(t, err)
}

func TestCountByDay_AscendingAndSumsToCount(t *testing.T) {
	entries := []models.Entry{
		{ID: "a", DataHora: "2024-01-15T10:00"},
		{ID: "b", DataHora: "2024-01-01T10:00"},
		{ID: "c", DataHora: "2024-01-15T23:00"},
		{ID: "d", DataHora: "2023-12-31T00:00"},
	}

	got := CountByDay(entries)
	require.Len(t, got, 3)

	labels := []string{got[0].Label(), got[1].Label(), got[2].Label()}
	assert.Equal(t, []string{"31/12/2023", "01/01/2024", "15/01/2024"}, labels)

	total := 0
	for i, dc := range got {
		total += dc.Count
		if i > 0 {
			assert.True(t, got[i-1].Day.Before(dc.Day))
		}
	}
	assert.Equal(t, len(entries), total)
	assert.Equal(t, 2, got[2].Count)
}

func TestCountByDay_Empty(t *testing.T) {
	assert.Empty(t, CountByDay(nil))
}

func TestExportRows_Placeholders(t *testing.T) {
	entries := []models.Entry{
		{ID: "1", DataHora: "2024-01-15T10:00", Situacao: "reunião", Pensamento: "vou falhar", Emocao: "ansiedade", Estrategia: "respirar", Eficacia: 70},
		{ID: "2", DataHora: "2024-01-16T08:05", Situacao: "exame", Pensamento: "p", Emocao: "medo", SintomasFisicos: "tremor", Estrategia: "e", Eficacia: 40, Intensidade: 90},
	}

	rows := ExportRows(entries)
	require.Len(t, rows, 2)

	for _, r := range rows {
		cells := r.Cells()
		require.Len(t, cells, 8)
		for i, c := range cells {
			assert.NotEqual(t, "", c, "column %d must be populated", i)
		}
	}

	assert.Equal(t, "15/01/2024, 10:00:00", rows[0].DataHora)
	assert.Equal(t, "-", rows[0].SintomasFisicos)
	assert.Equal(t, 0, rows[0].Intensidade)
	assert.Equal(t, "tremor", rows[1].SintomasFisicos)
	assert.Equal(t, 90, rows[1].Intensidade)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "registos_2024-01-16.xlsx", ExportFilename(local(2024, 1, 16, 23, 0)))
}

func TestWriteWorkbook(t *testing.T) {
	rows := ExportRows([]models.Entry{
		{DataHora: "2024-01-15T10:00", Situacao: "s", Eficacia: 55, Intensidade: 5},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	got, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Columns, got[0])
	assert.Equal(t, []string{"15/01/2024, 10:00:00", "s", "-", "-", "-", "-", "55", "5"}, got[1])

	for col, want := range map[string]float64{"A": 20, "B": 30, "F": 30, "G": 10, "H": 10} {
		width, err := f.GetColWidth(SheetName, col)
		require.NoError(t, err)
		assert.InDelta(t, want, width, 0.01, "column %s", col)
	}
}
