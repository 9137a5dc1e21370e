package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-funding-api/internal/dto"
	"github.com/noah-isme/campus-funding-api/internal/engine"
	"github.com/noah-isme/campus-funding-api/internal/models"
	appErrors "github.com/noah-isme/campus-funding-api/pkg/errors"
	"github.com/noah-isme/campus-funding-api/pkg/storage"
)

type fixedSource struct {
	ov engine.Overview
}

func (f fixedSource) Overview() engine.Overview { return f.ov }

func newExportFixture(t *testing.T) (*ExportService, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	source := fixedSource{ov: engine.Overview{
		RequestsByAmount: []models.FundingRequest{
			{ID: "R2", StudentID: "s1", Amount: 50, Urgency: 9, Status: models.StatusFunded},
			{ID: "R1", StudentID: "s1", Amount: 100, Urgency: 5, Status: models.StatusApproved},
		},
	}}
	return NewExportService(source, store, 1, 1, nil, nil), dir
}

func TestGenerateCSVReport(t *testing.T) {
	svc, dir := newExportFixture(t)

	require.NoError(t, svc.Generate("report.csv", "csv"))

	data, err := os.ReadFile(filepath.Join(dir, "report.csv"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Request,Student,Amount,Urgency,Status")
	assert.Contains(t, content, "R2,s1,50.00,9,funded")
	assert.Contains(t, content, "R1,s1,100.00,5,approved")
	assert.Contains(t, content, "Total requested: 150.00")
	assert.Contains(t, content, "Funded: 1, awaiting funding: 1")
}

func TestGeneratePDFReport(t *testing.T) {
	svc, dir := newExportFixture(t)

	require.NoError(t, svc.Generate("report.pdf", "pdf"))

	data, err := os.ReadFile(filepath.Join(dir, "report.pdf"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestGenerateRejectsUnknownFormat(t *testing.T) {
	svc, _ := newExportFixture(t)
	assert.Error(t, svc.Generate("report.xml", "xml"))
}

func TestCreateExportValidatesFormat(t *testing.T) {
	svc, _ := newExportFixture(t)

	_, err := svc.CreateExport(context.Background(), dto.CreateExportRequest{Format: "docx"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestCreateExportQueuesJob(t *testing.T) {
	svc, dir := newExportFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	job, err := svc.CreateExport(ctx, dto.CreateExportRequest{Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, "queued", job.Status)
	assert.True(t, strings.HasSuffix(job.Filename, ".csv"))

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, job.Filename))
		return err == nil
	}, 3*time.Second, 20*time.Millisecond)
}

func TestCreateExportWithoutWorkersFails(t *testing.T) {
	svc, _ := newExportFixture(t)

	_, err := svc.CreateExport(context.Background(), dto.CreateExportRequest{Format: "csv"})
	assert.Error(t, err)
}

func TestOpenMissingReport(t *testing.T) {
	svc, _ := newExportFixture(t)

	_, err := svc.Open(context.Background(), "ghost.csv")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestOpenReturnsStoredReport(t *testing.T) {
	svc, _ := newExportFixture(t)
	require.NoError(t, svc.Generate("report.csv", "csv"))

	file, err := svc.Open(context.Background(), "report.csv")
	require.NoError(t, err)
	defer file.Close()

	data, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestCleanupRemovesExpiredReports(t *testing.T) {
	svc, dir := newExportFixture(t)
	require.NoError(t, svc.Generate("old.csv", "csv"))

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "old.csv"), old, old))

	svc.Cleanup(time.Hour)

	_, err := os.Stat(filepath.Join(dir, "old.csv"))
	assert.True(t, os.IsNotExist(err))
}
