package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/registo/internal/client/models"
	"github.com/dmitrijs2005/registo/internal/client/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeUploader struct {
	name        string
	body        []byte
	contentType string
	url         string
	err         error
}

func (f *fakeUploader) Upload(ctx context.Context, name string, body []byte, contentType string) (string, error) {
	f.name, f.body, f.contentType = name, body, contentType
	return f.url, f.err
}

func exportNow() time.Time { return time.Date(2024, 5, 3, 9, 0, 0, 0, time.Local) }

func TestExport_WritesWorkbook(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	svc := NewExportService(dir, nil, exportNow)

	entries := []models.Entry{
		{ID: "a", DataHora: "2024-05-02T10:15", Situacao: "reunião", Eficacia: 40, Intensidade: 90},
		{ID: "b", DataHora: "2024-05-01T08:00"},
	}
	res, err := svc.Export(context.Background(), entries, false)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Rows)
	assert.Empty(t, res.URL)
	assert.Equal(t, "registos_2024-05-03.xlsx", filepath.Base(res.Path))

	f, err := excelize.OpenFile(res.Path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(report.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, report.Columns, rows[0])
	assert.Equal(t, "reunião", rows[1][1])
	assert.Equal(t, "-", rows[2][1])
}

func TestExport_SameDayReplacesFile(t *testing.T) {
	dir := t.TempDir()
	svc := NewExportService(dir, nil, exportNow)
	ctx := context.Background()

	_, err := svc.Export(ctx, []models.Entry{{ID: "a", DataHora: "2024-05-02T10:15"}}, false)
	require.NoError(t, err)
	res, err := svc.Export(ctx, []models.Entry{}, false)
	require.NoError(t, err)

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Base(res.Path), files[0].Name())

	fi, err := os.Stat(res.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	f, err := excelize.OpenFile(res.Path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(report.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExport_EmptyListWritesHeaderOnly(t *testing.T) {
	svc := NewExportService(t.TempDir(), nil, exportNow)

	res, err := svc.Export(context.Background(), nil, false)
	require.NoError(t, err)
	assert.Zero(t, res.Rows)

	_, err = os.Stat(res.Path)
	require.NoError(t, err)
}

func TestExport_Upload(t *testing.T) {
	up := &fakeUploader{url: "https://s3.example/registos.xlsx?sig=1"}
	svc := NewExportService(t.TempDir(), up, exportNow)

	res, err := svc.Export(context.Background(), []models.Entry{{ID: "a", DataHora: "2024-05-02T10:15"}}, true)
	require.NoError(t, err)

	assert.Equal(t, up.url, res.URL)
	assert.Equal(t, "registos_2024-05-03.xlsx", up.name)
	assert.Equal(t, xlsxContentType, up.contentType)

	onDisk, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, onDisk, up.body)
}

func TestExport_UploadFailureKeepsLocalFile(t *testing.T) {
	up := &fakeUploader{err: errBoom}
	svc := NewExportService(t.TempDir(), up, exportNow)

	res, err := svc.Export(context.Background(), nil, true)
	require.ErrorIs(t, err, errBoom)
	assert.NotEmpty(t, res.Path)
	_, statErr := os.Stat(res.Path)
	require.NoError(t, statErr)
}

func TestExport_UploadWithoutStorage(t *testing.T) {
	svc := NewExportService(t.TempDir(), nil, exportNow)

	_, err := svc.Export(context.Background(), nil, true)
	require.ErrorIs(t, err, ErrStorageNotConfigured)
}
