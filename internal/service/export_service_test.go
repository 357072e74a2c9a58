package service

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-complaint-api/internal/models"
	appErrors "github.com/noah-isme/campus-complaint-api/pkg/errors"
	"github.com/noah-isme/campus-complaint-api/pkg/jobs"
	"github.com/noah-isme/campus-complaint-api/pkg/storage"
)

type fakeExportComplaints struct {
	complaints []models.Complaint
}

func (f *fakeExportComplaints) Search(context.Context, models.ComplaintFilter) ([]models.Complaint, error) {
	return f.complaints, nil
}

type fakeExportJobRepo struct {
	jobs   map[string]*models.ExportJob
	nextID int
}

func newFakeExportJobRepo() *fakeExportJobRepo {
	return &fakeExportJobRepo{jobs: map[string]*models.ExportJob{}}
}

func (f *fakeExportJobRepo) Create(_ context.Context, job *models.ExportJob) error {
	f.nextID++
	job.ID = fmt.Sprintf("job-%d", f.nextID)
	job.CreatedAt = time.Now().UTC()
	stored := *job
	f.jobs[job.ID] = &stored
	return nil
}

func (f *fakeExportJobRepo) FindByID(_ context.Context, id string) (*models.ExportJob, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *job
	return &copied, nil
}

func (f *fakeExportJobRepo) MarkProcessing(_ context.Context, id string) error {
	f.jobs[id].Status = models.ExportStatusProcessing
	return nil
}

func (f *fakeExportJobRepo) MarkFinished(_ context.Context, id, resultURL string) error {
	f.jobs[id].Status = models.ExportStatusFinished
	f.jobs[id].ResultURL = &resultURL
	return nil
}

func (f *fakeExportJobRepo) MarkFailed(_ context.Context, id, message string) error {
	f.jobs[id].Status = models.ExportStatusFailed
	f.jobs[id].ErrorMessage = &message
	return nil
}

type fakeEnqueuer struct {
	enqueued []jobs.Job
	err      error
}

func (f *fakeEnqueuer) Enqueue(job jobs.Job) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, job)
	return nil
}

func sampleComplaints() []models.Complaint {
	submitted := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return []models.Complaint{{
		ID:          1,
		UserID:      "u1",
		Name:        "Asha Rao",
		RollNo:      "CS-101",
		Department:  "CSE",
		Course:      "B.Tech",
		Gender:      "Female",
		Body:        "The hostel water supply keeps failing",
		Category:    "Hostel",
		Priority:    models.PriorityHigh,
		Status:      models.StatusOpen,
		SubmittedAt: submitted,
	}}
}

func newExportService(t *testing.T, complaints []models.Complaint, jobsRepo *fakeExportJobRepo) *ExportService {
	t.Helper()
	fileStore, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewExportService(&fakeExportComplaints{complaints: complaints}, jobsRepo, fileStore, signer, ExportServiceConfig{
		APIPrefix:  "/api/v1",
		ResultTTL:  time.Hour,
		MaxRetries: 1,
	}, nil, nil)
}

func TestExportServiceRenderCSVHeaderAndRows(t *testing.T) {
	svc := newExportService(t, sampleComplaints(), newFakeExportJobRepo())

	filename, payload, err := svc.RenderCSV(context.Background(), models.ComplaintFilter{})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^complaints_\d{8}_\d{6}\.csv$`), filename)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Name,Roll No,Department,Course,Gender,Complaint,Category,Priority,Status,Submitted At", lines[0])
	assert.Equal(t, "1,Asha Rao,CS-101,CSE,B.Tech,Female,The hostel water supply keeps failing,Hostel,High,Open,2026-03-14 09:30:00", lines[1])
}

func TestExportServiceRenderCSVEmptySetKeepsHeader(t *testing.T) {
	svc := newExportService(t, nil, newFakeExportJobRepo())

	_, payload, err := svc.RenderCSV(context.Background(), models.ComplaintFilter{})
	require.NoError(t, err)
	assert.Equal(t, "ID,Name,Roll No,Department,Course,Gender,Complaint,Category,Priority,Status,Submitted At", strings.TrimSpace(string(payload)))
}

func TestExportServiceEnqueueRejectsUnknownFormat(t *testing.T) {
	svc := newExportService(t, nil, newFakeExportJobRepo())
	svc.SetQueue(&fakeEnqueuer{})

	_, err := svc.Enqueue(context.Background(), "teacher-1", "xlsx", models.ExportJobParams{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceEnqueueAndProcess(t *testing.T) {
	jobsRepo := newFakeExportJobRepo()
	svc := newExportService(t, sampleComplaints(), jobsRepo)
	queue := &fakeEnqueuer{}
	svc.SetQueue(queue)

	job, err := svc.Enqueue(context.Background(), "teacher-1", models.ExportFormatCSV, models.ExportJobParams{Status: "Open"})
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, job.Status)
	require.Len(t, queue.enqueued, 1)

	require.NoError(t, svc.Process(context.Background(), queue.enqueued[0]))

	finished, err := svc.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFinished, finished.Status)
	require.NotNil(t, finished.ResultURL)
	assert.Contains(t, *finished.ResultURL, "/api/v1/exports/download?token=")

	token := strings.TrimPrefix(*finished.ResultURL, "/api/v1/exports/download?token=")
	downloaded, file, err := svc.OpenDownload(token)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, job.ID, downloaded.ID)
}

func TestExportServiceProcessMarksFailedAfterRetries(t *testing.T) {
	jobsRepo := newFakeExportJobRepo()
	// PDF render succeeds even with no rows; an unknown format is the
	// reliable way to force a terminal failure.
	svc := newExportService(t, nil, jobsRepo)

	job := &models.ExportJob{Format: "xlsx", Status: models.ExportStatusQueued, CreatedBy: "teacher-1"}
	require.NoError(t, jobsRepo.Create(context.Background(), job))

	err := svc.Process(context.Background(), jobs.Job{ID: job.ID, Attempt: 1})
	require.Error(t, err)
	assert.Equal(t, models.ExportStatusFailed, jobsRepo.jobs[job.ID].Status)
}

func TestExportServiceOpenDownloadBadToken(t *testing.T) {
	svc := newExportService(t, nil, newFakeExportJobRepo())

	_, _, err := svc.OpenDownload("tampered.token.value.sig")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
