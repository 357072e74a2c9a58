package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-complaint-api/internal/models"
	appErrors "github.com/noah-isme/campus-complaint-api/pkg/errors"
)

type fakeStatisticsRepo struct {
	stats *models.ComplaintStatistics
	err   error
}

func (f *fakeStatisticsRepo) Collect(context.Context) (*models.ComplaintStatistics, error) {
	return f.stats, f.err
}

func TestStatisticsServiceGet(t *testing.T) {
	repo := &fakeStatisticsRepo{stats: &models.ComplaintStatistics{
		Total:        4,
		ByStatus:     map[string]int{"Open": 3, "Closed": 1},
		ByCategory:   map[string]int{"Hostel": 4},
		ByPriority:   map[string]int{"Medium": 4},
		ByDepartment: map[string]int{"CSE": 2, "ECE": 2},
	}}
	svc := NewStatisticsService(repo, nil)

	stats, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)

	sum := 0
	for _, n := range stats.ByStatus {
		sum += n
	}
	assert.Equal(t, stats.Total, sum)
	assert.NotContains(t, stats.ByStatus, "In Progress")
}

func TestStatisticsServiceGetError(t *testing.T) {
	svc := NewStatisticsService(&fakeStatisticsRepo{err: errors.New("boom")}, nil)

	_, err := svc.Get(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
