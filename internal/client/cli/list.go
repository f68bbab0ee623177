package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/registo/internal/client/models"
	"github.com/dmitrijs2005/registo/internal/client/report"
	"github.com/dustin/go-humanize/english"
	"github.com/gosuri/uitable"
)

const listCellWidth = 30

func (a *App) List(ctx context.Context) error {
	entries := a.visible()
	fmt.Fprintf(a.out, "%s (%s)\n", english.Plural(len(entries), "entry", "entries"), a.period.Label())
	if len(entries) == 0 {
		return nil
	}
	renderTable(a.out, entries)
	return nil
}

// renderTable prints entries newest first with "-" for empty text and
// percentages for the two scores.
func renderTable(w io.Writer, entries []models.Entry) {
	table := uitable.New()
	table.MaxColWidth = listCellWidth
	table.Wrap = true
	table.Separator = "  "
	for _, col := range []int{7, 8} {
		table.RightAlign(col)
	}

	header := []any{"ID"}
	for _, c := range report.Columns {
		header = append(header, c)
	}
	table.AddRow(header...)

	rows := report.ExportRows(entries)
	for i, r := range rows {
		table.AddRow(
			entries[i].ID,
			r.DataHora,
			r.Situacao,
			r.Pensamento,
			r.Emocao,
			r.SintomasFisicos,
			r.Estrategia,
			fmt.Sprintf("%d%%", r.Eficacia),
			fmt.Sprintf("%d%%", r.Intensidade),
		)
	}
	fmt.Fprint(w, table)
	fmt.Fprintln(w)
}
