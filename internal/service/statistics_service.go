package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-complaint-api/internal/models"
	appErrors "github.com/noah-isme/campus-complaint-api/pkg/errors"
)

type statisticsRepository interface {
	Collect(ctx context.Context) (*models.ComplaintStatistics, error)
}

// StatisticsService exposes dashboard counts. Deliberately uncached: every
// call recomputes from the live store, and a snapshot that is stale by the
// time it renders is acceptable.
type StatisticsService struct {
	repo   statisticsRepository
	logger *zap.Logger
}

// NewStatisticsService constructs a StatisticsService instance.
func NewStatisticsService(repo statisticsRepository, logger *zap.Logger) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{repo: repo, logger: logger}
}

// Get returns the current grouped counts.
func (s *StatisticsService) Get(ctx context.Context) (*models.ComplaintStatistics, error) {
	stats, err := s.repo.Collect(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to collect statistics")
	}
	return stats, nil
}
