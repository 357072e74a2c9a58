package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-complaint-api/internal/models"
	appErrors "github.com/noah-isme/campus-complaint-api/pkg/errors"
)

type lifecycleRepository interface {
	UpdateStatus(ctx context.Context, id int64, newStatus models.ComplaintStatus, actorID string) (models.ComplaintStatus, error)
	ListHistory(ctx context.Context, complaintID int64) ([]models.StatusHistoryDetail, error)
}

// LifecycleService manages complaint status transitions and the audit trail.
// Any status may move to any other status; the permissiveness lets staff
// correct mistaken updates. Identical old/new transitions are still recorded
// when requested; skipping them is a caller concern.
type LifecycleService struct {
	repo    lifecycleRepository
	logger  *zap.Logger
	metrics *MetricsService
}

// NewLifecycleService constructs a LifecycleService instance.
func NewLifecycleService(repo lifecycleRepository, logger *zap.Logger, metrics *MetricsService) *LifecycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleService{repo: repo, logger: logger, metrics: metrics}
}

// SetStatus applies a transition. The repository commits the status write and
// the history entry as one unit; the transition is only considered committed
// once both are durable.
func (s *LifecycleService) SetStatus(ctx context.Context, id int64, newStatus models.ComplaintStatus, actorID string) error {
	if !newStatus.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown status value")
	}

	oldStatus, err := s.repo.UpdateStatus(ctx, id, newStatus, actorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "complaint not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update status")
	}

	s.metrics.IncStatusTransition(string(newStatus))
	s.logger.Info("complaint status changed",
		zap.Int64("complaint_id", id),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(newStatus)),
		zap.String("actor_id", actorID),
	)
	return nil
}

// History returns the transition trail, oldest first. An unknown complaint id
// yields an empty trail rather than an error.
func (s *LifecycleService) History(ctx context.Context, complaintID int64) ([]models.StatusHistoryDetail, error) {
	entries, err := s.repo.ListHistory(ctx, complaintID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load status history")
	}
	return entries, nil
}
