package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-complaint-api/internal/models"
	appErrors "github.com/noah-isme/campus-complaint-api/pkg/errors"
)

type complaintRepository interface {
	Create(ctx context.Context, c *models.Complaint) error
	FindByID(ctx context.Context, id int64) (*models.ComplaintDetail, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Complaint, error)
	Search(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error)
	DeleteCascade(ctx context.Context, id int64) error
}

// CreateComplaintRequest carries a submission. The snapshot fields are copied
// onto the complaint row; later account edits never touch them. Body length
// is the one content rule the original enforces (20 characters minimum).
type CreateComplaintRequest struct {
	Name     string `json:"name" validate:"required"`
	RollNo   string `json:"roll_no"`
	Dept     string `json:"department" validate:"required"`
	Course   string `json:"course" validate:"required"`
	Gender   string `json:"gender" validate:"required"`
	Body     string `json:"complaint" validate:"required,min=20"`
	Category string `json:"category" validate:"required"`
	Priority string `json:"priority" validate:"omitempty,oneof=Low Medium High Critical"`
}

// ComplaintService owns complaint submission, retrieval and deletion.
type ComplaintService struct {
	repo      complaintRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
}

// NewComplaintService constructs a ComplaintService instance.
func NewComplaintService(repo complaintRepository, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *ComplaintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ComplaintService{repo: repo, validator: validate, logger: logger, metrics: metrics}
}

// Create validates the submission at the boundary and persists it at status
// Open. The store itself performs no validation.
func (s *ComplaintService) Create(ctx context.Context, ownerID string, req CreateComplaintRequest) (*models.Complaint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid complaint payload")
	}

	priority := models.ComplaintPriority(req.Priority)
	if priority == "" {
		priority = models.PriorityMedium
	}

	complaint := &models.Complaint{
		UserID:     ownerID,
		Name:       req.Name,
		RollNo:     req.RollNo,
		Department: req.Dept,
		Course:     req.Course,
		Gender:     req.Gender,
		Body:       req.Body,
		Category:   req.Category,
		Priority:   priority,
		Status:     models.StatusOpen,
	}
	if err := s.repo.Create(ctx, complaint); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create complaint")
	}

	s.metrics.IncComplaintCreated(complaint.Category)
	s.logger.Info("complaint created",
		zap.Int64("complaint_id", complaint.ID),
		zap.String("category", complaint.Category),
		zap.String("priority", string(complaint.Priority)),
	)
	return complaint, nil
}

// ListOwn returns the caller's complaints, newest first.
func (s *ComplaintService) ListOwn(ctx context.Context, ownerID string) ([]models.Complaint, error) {
	complaints, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list complaints")
	}
	return complaints, nil
}

// Search returns complaints matching the optional filters, newest first.
func (s *ComplaintService) Search(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	complaints, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search complaints")
	}
	return complaints, nil
}

// Get returns one complaint with owner display fields, or NotFound.
func (s *ComplaintService) Get(ctx context.Context, id int64) (*models.ComplaintDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "complaint not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load complaint")
	}
	return detail, nil
}

// Delete removes the complaint and its response and history children as one
// atomic cascade. Deleting an unknown id succeeds silently; deletion is the
// single idempotent mutation in the system.
func (s *ComplaintService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete complaint")
	}
	s.logger.Info("complaint deleted", zap.Int64("complaint_id", id))
	return nil
}
