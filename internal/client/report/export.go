package report

import (
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/registo/internal/client/models"
	"github.com/xuri/excelize/v2"
)

// SheetName is the single worksheet of an export.
const SheetName = "Registos"

// DateTimeLayout matches pt-PT toLocaleString output.
const DateTimeLayout = "02/01/2006, 15:04:05"

const (
	missingText  = "-"
	missingScore = 0
)

// Columns are the export headings, in order.
var Columns = []string{
	"Data/Hora",
	"Situação",
	"Pensamento",
	"Emoção",
	"Sintomas Físicos",
	"Estratégia",
	"Eficácia",
	"Intensidade",
}

var columnWidths = []float64{20, 30, 30, 30, 30, 30, 10, 10}

// Row is one spreadsheet line.
type Row struct {
	DataHora        string
	Situacao        string
	Pensamento      string
	Emocao          string
	SintomasFisicos string
	Estrategia      string
	Eficacia        int
	Intensidade     int
}

// Cells returns the row in column order.
func (r Row) Cells() []any {
	return []any{r.DataHora, r.Situacao, r.Pensamento, r.Emocao, r.SintomasFisicos, r.Estrategia, r.Eficacia, r.Intensidade}
}

// ExportRows maps entries to rows: localized datetime, "-" for empty text and
// 0 for missing scores. An unparseable date is exported verbatim.
func ExportRows(entries []models.Entry) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row{
			DataHora:        FormatDateTime(e),
			Situacao:        orDash(e.Situacao),
			Pensamento:      orDash(e.Pensamento),
			Emocao:          orDash(e.Emocao),
			SintomasFisicos: orDash(e.SintomasFisicos),
			Estrategia:      orDash(e.Estrategia),
			Eficacia:        e.Eficacia,
			Intensidade:     e.Intensidade,
		})
	}
	return rows
}

// FormatDateTime renders the entry date for tables and exports.
func FormatDateTime(e models.Entry) string {
	t, ok := e.Time()
	if !ok {
		return orDash(e.DataHora)
	}
	return t.Format(DateTimeLayout)
}

func orDash(s string) string {
	if s == "" {
		return missingText
	}
	return s
}

// ExportFilename embeds the current local date, e.g. registos_2024-01-16.xlsx.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("registos_%s.xlsx", now.Local().Format("2006-01-02"))
}

// WriteWorkbook writes rows as an xlsx workbook with a header line and fixed
// column widths.
func WriteWorkbook(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		cells := r.Cells()
		if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("set width of %s: %w", col, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
