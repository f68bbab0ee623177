package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/juju/utils/v4"

	"github.com/dmitrijs2005/registo/internal/client/models"
	"github.com/dmitrijs2005/registo/internal/client/report"
	"github.com/dmitrijs2005/registo/internal/filex"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Uploader publishes a file and returns a link to download it.
type Uploader interface {
	Upload(ctx context.Context, name string, body []byte, contentType string) (string, error)
}

type ExportResult struct {
	Path string
	URL  string
	Rows int
}

type ExportService interface {
	// Export writes entries (already filtered by the caller) to a workbook
	// in the export directory. With upload set the file is also published.
	Export(ctx context.Context, entries []models.Entry, upload bool) (ExportResult, error)
}

type exportService struct {
	dir      string
	uploader Uploader
	now      func() time.Time
}

// NewExportService builds the exporter. uploader may be nil when no object
// storage is configured.
func NewExportService(dir string, uploader Uploader, now func() time.Time) ExportService {
	if now == nil {
		now = time.Now
	}
	return &exportService{dir: dir, uploader: uploader, now: now}
}

func (s *exportService) Export(ctx context.Context, entries []models.Entry, upload bool) (ExportResult, error) {
	if upload && s.uploader == nil {
		return ExportResult{}, ErrStorageNotConfigured
	}

	rows := report.ExportRows(entries)

	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, rows); err != nil {
		return ExportResult{}, fmt.Errorf("build workbook: %w", err)
	}

	dir, err := filex.EnsureDir(s.dir)
	if err != nil {
		return ExportResult{}, err
	}

	name := report.ExportFilename(s.now())
	path := filepath.Join(dir, name)
	if err := utils.AtomicWriteFile(path, buf.Bytes(), 0o600); err != nil {
		return ExportResult{}, fmt.Errorf("write export: %w", err)
	}

	res := ExportResult{Path: path, Rows: len(rows)}
	if upload {
		url, err := s.uploader.Upload(ctx, name, buf.Bytes(), xlsxContentType)
		if err != nil {
			return res, fmt.Errorf("upload export: %w", err)
		}
		res.URL = url
	}
	return res, nil
}
