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

type responseRepository interface {
	Create(ctx context.Context, entry *models.ResponseEntry) error
	ListByComplaint(ctx context.Context, complaintID int64) ([]models.ResponseDetail, error)
}

type responseComplaintLookup interface {
	FindByID(ctx context.Context, id int64) (*models.ComplaintDetail, error)
}

// AddResponseRequest carries a staff response; ten characters minimum, the
// same rule the original form enforces.
type AddResponseRequest struct {
	Body string `json:"response" validate:"required,min=10"`
}

// ResponseService owns the append-only staff response log.
type ResponseService struct {
	repo       responseRepository
	complaints responseComplaintLookup
	validator  *validator.Validate
	logger     *zap.Logger
	metrics    *MetricsService
}

// NewResponseService constructs a ResponseService instance.
func NewResponseService(repo responseRepository, complaints responseComplaintLookup, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *ResponseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ResponseService{repo: repo, complaints: complaints, validator: validate, logger: logger, metrics: metrics}
}

// Add validates at the boundary and appends a response. Responding to an
// unknown complaint is NotFound; responses are never mutated afterwards.
func (s *ResponseService) Add(ctx context.Context, complaintID int64, responderID string, req AddResponseRequest) (*models.ResponseEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid response payload")
	}

	if _, err := s.complaints.FindByID(ctx, complaintID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "complaint not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load complaint")
	}

	entry := &models.ResponseEntry{
		ComplaintID: complaintID,
		ResponderID: responderID,
		Body:        req.Body,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add response")
	}

	s.metrics.IncResponseAdded()
	s.logger.Info("response added", zap.Int64("complaint_id", complaintID), zap.String("responder_id", responderID))
	return entry, nil
}

// List returns responses oldest first, joined with responder name and role.
// An unknown complaint id yields an empty list, never an error.
func (s *ResponseService) List(ctx context.Context, complaintID int64) ([]models.ResponseDetail, error) {
	responses, err := s.repo.ListByComplaint(ctx, complaintID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list responses")
	}
	return responses, nil
}
