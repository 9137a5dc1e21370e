package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-funding-api/internal/dto"
	"github.com/noah-isme/campus-funding-api/internal/engine"
	"github.com/noah-isme/campus-funding-api/internal/models"
	appErrors "github.com/noah-isme/campus-funding-api/pkg/errors"
	"github.com/noah-isme/campus-funding-api/pkg/export"
	"github.com/noah-isme/campus-funding-api/pkg/jobs"
	"github.com/noah-isme/campus-funding-api/pkg/storage"
)

type overviewSource interface {
	Overview() engine.Overview
}

type exportPayload struct {
	Filename string
	Format   string
}

// ExportService generates funding report files asynchronously. A create
// call queues a job; a worker renders the amount-sorted request table to
// CSV or PDF and writes it to the exports directory.
type ExportService struct {
	source    overviewSource
	storage   *storage.LocalStorage
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	queue     *jobs.Queue
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExportService wires the report pipeline and its worker queue.
func NewExportService(source overviewSource, store *storage.LocalStorage, workers, retries int, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExportService{
		source:    source,
		storage:   store,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
	}
	s.queue = jobs.NewQueue("funding_reports", s.process, jobs.QueueConfig{
		Workers:    workers,
		MaxRetries: retries,
		Logger:     logger,
	})
	return s
}

// Start launches the report workers.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the report workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// CreateExport queues a report generation job and returns its descriptor.
func (s *ExportService) CreateExport(ctx context.Context, req dto.CreateExportRequest) (*dto.ExportJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}

	jobID := uuid.NewString()
	filename := fmt.Sprintf("funding_report_%s_%s.%s",
		time.Now().UTC().Format("20060102T150405"), jobID[:8], req.Format)

	job := jobs.Job{
		ID:      jobID,
		Type:    "funding_report",
		Payload: exportPayload{Filename: filename, Format: req.Format},
	}
	if err := s.queue.Enqueue(job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export")
	}

	return &dto.ExportJob{JobID: jobID, Filename: filename, Format: req.Format, Status: "queued"}, nil
}

// Open returns a handle on a previously generated report file.
func (s *ExportService) Open(ctx context.Context, filename string) (*os.File, error) {
	file, err := s.storage.Open(filename)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
	}
	return file, nil
}

// Cleanup deletes report files older than ttl.
func (s *ExportService) Cleanup(ttl time.Duration) {
	deleted, err := s.storage.CleanupOlderThan(ttl)
	if err != nil {
		s.logger.Warn("report cleanup failed", zap.Error(err))
		return
	}
	if len(deleted) > 0 {
		s.logger.Info("expired reports removed", zap.Int("count", len(deleted)))
	}
}

func (s *ExportService) process(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(exportPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}
	return s.Generate(payload.Filename, payload.Format)
}

// Generate renders and stores the report synchronously. Exported for the
// worker path and for tests.
func (s *ExportService) Generate(filename, format string) error {
	data := s.buildDataset()

	var rendered []byte
	var err error
	switch format {
	case "pdf":
		rendered, err = s.pdf.Render(data)
	case "csv":
		rendered, err = s.csv.Render(data)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return fmt.Errorf("render %s report: %w", format, err)
	}

	if _, err := s.storage.Save(filename, rendered); err != nil {
		return fmt.Errorf("store report: %w", err)
	}
	s.logger.Info("report generated", zap.String("file", filename), zap.String("format", format))
	return nil
}

func (s *ExportService) buildDataset() export.Dataset {
	ov := s.source.Overview()

	rows := make([][]string, 0, len(ov.RequestsByAmount))
	var totalRequested float64
	funded := 0
	awaiting := 0
	for _, req := range ov.RequestsByAmount {
		rows = append(rows, []string{
			req.ID,
			req.StudentID,
			fmt.Sprintf("%.2f", req.Amount),
			fmt.Sprintf("%d", req.Urgency),
			string(req.Status),
		})
		totalRequested += req.Amount
		switch req.Status {
		case models.StatusFunded:
			funded++
		case models.StatusApproved:
			awaiting++
		}
	}

	return export.Dataset{
		Title:   "Campus Funding Report",
		Headers: []string{"Request", "Student", "Amount", "Urgency", "Status"},
		Rows:    rows,
		Summary: []string{
			fmt.Sprintf("Requests: %d", len(rows)),
			fmt.Sprintf("Total requested: %.2f", totalRequested),
			fmt.Sprintf("Funded: %d, awaiting funding: %d", funded, awaiting),
		},
	}
}
