package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-complaint-api/internal/models"
	"github.com/noah-isme/campus-complaint-api/pkg/export"
	appErrors "github.com/noah-isme/campus-complaint-api/pkg/errors"
	"github.com/noah-isme/campus-complaint-api/pkg/jobs"
	"github.com/noah-isme/campus-complaint-api/pkg/storage"
)

// complaintExportHeaders is the fixed column set existing exports expect;
// order and spelling must not change.
var complaintExportHeaders = []string{
	"ID", "Name", "Roll No", "Department", "Course", "Gender",
	"Complaint", "Category", "Priority", "Status", "Submitted At",
}

const exportTimeLayout = "2006-01-02 15:04:05"

type exportComplaintRepository interface {
	Search(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error)
}

type exportJobRepository interface {
	Create(ctx context.Context, job *models.ExportJob) error
	FindByID(ctx context.Context, id string) (*models.ExportJob, error)
	MarkProcessing(ctx context.Context, id string) error
	MarkFinished(ctx context.Context, id, resultURL string) error
	MarkFailed(ctx context.Context, id, message string) error
}

type exportFileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type exportEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// ExportServiceConfig tunes export behaviour.
type ExportServiceConfig struct {
	APIPrefix  string
	ResultTTL  time.Duration
	MaxRetries int
}

// ExportService renders complaint exports, both synchronously and through
// background jobs with signed download tokens.
type ExportService struct {
	complaints exportComplaintRepository
	jobsRepo   exportJobRepository
	storage    exportFileStorage
	csv        csvRenderer
	pdf        pdfRenderer
	signer     *storage.SignedURLSigner
	queue      exportEnqueuer
	logger     *zap.Logger
	metrics    *MetricsService
	cfg        ExportServiceConfig
}

// NewExportService constructs an ExportService. The queue is attached later
// via SetQueue because the queue handler needs the service.
func NewExportService(complaints exportComplaintRepository, jobsRepo exportJobRepository, fileStore exportFileStorage, signer *storage.SignedURLSigner, cfg ExportServiceConfig, logger *zap.Logger, metrics *MetricsService) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &ExportService{
		complaints: complaints,
		jobsRepo:   jobsRepo,
		storage:    fileStore,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		signer:     signer,
		logger:     logger,
		metrics:    metrics,
		cfg:        cfg,
	}
}

// SetQueue attaches the started job queue.
func (s *ExportService) SetQueue(q exportEnqueuer) {
	s.queue = q
}

// RenderCSV produces the complaint CSV for a direct download, along with the
// timestamped filename the original client used.
func (s *ExportService) RenderCSV(ctx context.Context, filter models.ComplaintFilter) (string, []byte, error) {
	dataset, err := s.buildDataset(ctx, filter)
	if err != nil {
		return "", nil, err
	}
	payload, err := s.csv.Render(dataset)
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}

	filename := fmt.Sprintf("complaints_%s.csv", time.Now().Format("20060102_150405"))
	s.metrics.IncExportGenerated(string(models.ExportFormatCSV))
	return filename, payload, nil
}

// Enqueue persists a queued export job and hands it to the worker pool.
func (s *ExportService) Enqueue(ctx context.Context, createdBy string, format models.ExportFormat, params models.ExportJobParams) (*models.ExportJob, error) {
	if format != models.ExportFormatCSV && format != models.ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "export queue not running")
	}

	job := &models.ExportJob{
		Format:    format,
		Params:    params,
		Status:    models.ExportStatusQueued,
		CreatedBy: createdBy,
	}
	if err := s.jobsRepo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist export job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "export"}); err != nil {
		if markErr := s.jobsRepo.MarkFailed(ctx, job.ID, "enqueue failed"); markErr != nil {
			s.logger.Warn("failed to mark export job failed", zap.Error(markErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}
	return job, nil
}

// GetJob returns the current job state.
func (s *ExportService) GetJob(ctx context.Context, id string) (*models.ExportJob, error) {
	job, err := s.jobsRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	return job, nil
}

// Process is the queue handler: it renders the export, stores the file and
// records the signed download URL.
func (s *ExportService) Process(ctx context.Context, qjob jobs.Job) error {
	job, err := s.jobsRepo.FindByID(ctx, qjob.ID)
	if err != nil {
		return fmt.Errorf("load export job %s: %w", qjob.ID, err)
	}

	if err := s.jobsRepo.MarkProcessing(ctx, job.ID); err != nil {
		s.logger.Warn("failed to mark export job processing", zap.Error(err))
	}

	if err := s.generate(ctx, job); err != nil {
		// Out of retries: record the terminal failure.
		if qjob.Attempt >= s.cfg.MaxRetries {
			if markErr := s.jobsRepo.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
				s.logger.Warn("failed to mark export job failed", zap.Error(markErr))
			}
		}
		return err
	}
	return nil
}

// OpenDownload validates a signed token and opens the referenced file.
func (s *ExportService) OpenDownload(token string) (*models.ExportJob, *os.File, error) {
	jobID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}

	job, err := s.jobsRepo.FindByID(context.Background(), jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}

	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}
	return job, file, nil
}

// Cleanup removes stored exports older than the result TTL.
func (s *ExportService) Cleanup() {
	deleted, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL)
	if err != nil {
		s.logger.Warn("export cleanup failed", zap.Error(err))
		return
	}
	if len(deleted) > 0 {
		s.logger.Info("expired exports removed", zap.Int("count", len(deleted)))
	}
}

func (s *ExportService) generate(ctx context.Context, job *models.ExportJob) error {
	dataset, err := s.buildDataset(ctx, job.Params.Filter())
	if err != nil {
		return err
	}

	var payload []byte
	var ext string
	switch job.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
		ext = "csv"
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, "Complaint Report")
		ext = "pdf"
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		return fmt.Errorf("render export %s: %w", job.ID, err)
	}

	filename := fmt.Sprintf("complaints_%s_%s.%s", time.Now().Format("20060102_150405"), job.ID, ext)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return fmt.Errorf("store export %s: %w", job.ID, err)
	}

	token, _, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return fmt.Errorf("sign export %s: %w", job.ID, err)
	}
	resultURL := fmt.Sprintf("%s/exports/download?token=%s", s.cfg.APIPrefix, token)

	if err := s.jobsRepo.MarkFinished(ctx, job.ID, resultURL); err != nil {
		return fmt.Errorf("finish export %s: %w", job.ID, err)
	}

	s.metrics.IncExportGenerated(string(job.Format))
	s.logger.Info("export generated", zap.String("job_id", job.ID), zap.String("format", string(job.Format)), zap.Int("rows", len(dataset.Rows)))
	return nil
}

func (s *ExportService) buildDataset(ctx context.Context, filter models.ComplaintFilter) (export.Dataset, error) {
	complaints, err := s.complaints.Search(ctx, filter)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load complaints for export")
	}

	rows := make([]map[string]string, 0, len(complaints))
	for _, c := range complaints {
		rows = append(rows, map[string]string{
			"ID":           strconv.FormatInt(c.ID, 10),
			"Name":         c.Name,
			"Roll No":      c.RollNo,
			"Department":   c.Department,
			"Course":       c.Course,
			"Gender":       c.Gender,
			"Complaint":    c.Body,
			"Category":     c.Category,
			"Priority":     string(c.Priority),
			"Status":       string(c.Status),
			"Submitted At": c.SubmittedAt.Format(exportTimeLayout),
		})
	}

	return export.Dataset{Headers: complaintExportHeaders, Rows: rows}, nil
}
