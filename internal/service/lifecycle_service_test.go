package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-complaint-api/internal/models"
	appErrors "github.com/noah-isme/campus-complaint-api/pkg/errors"
)

type recordedTransition struct {
	id        int64
	newStatus models.ComplaintStatus
	actorID   string
}

type fakeLifecycleRepo struct {
	current     map[int64]models.ComplaintStatus
	transitions []recordedTransition
	history     []models.StatusHistoryDetail
}

func (f *fakeLifecycleRepo) UpdateStatus(_ context.Context, id int64, newStatus models.ComplaintStatus, actorID string) (models.ComplaintStatus, error) {
	old, ok := f.current[id]
	if !ok {
		return "", sql.ErrNoRows
	}
	f.current[id] = newStatus
	f.transitions = append(f.transitions, recordedTransition{id: id, newStatus: newStatus, actorID: actorID})
	return old, nil
}

func (f *fakeLifecycleRepo) ListHistory(_ context.Context, complaintID int64) ([]models.StatusHistoryDetail, error) {
	var out []models.StatusHistoryDetail
	for _, entry := range f.history {
		if entry.ComplaintID == complaintID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func TestLifecycleServiceSetStatus(t *testing.T) {
	repo := &fakeLifecycleRepo{current: map[int64]models.ComplaintStatus{5: models.StatusOpen}}
	svc := NewLifecycleService(repo, nil, nil)

	require.NoError(t, svc.SetStatus(context.Background(), 5, models.StatusResolved, "teacher-1"))
	assert.Equal(t, models.StatusResolved, repo.current[5])
	require.Len(t, repo.transitions, 1)
	assert.Equal(t, "teacher-1", repo.transitions[0].actorID)
}

func TestLifecycleServiceSetStatusAllowsAnyDirection(t *testing.T) {
	repo := &fakeLifecycleRepo{current: map[int64]models.ComplaintStatus{5: models.StatusClosed}}
	svc := NewLifecycleService(repo, nil, nil)

	// Reopening a closed complaint is a legal correction.
	require.NoError(t, svc.SetStatus(context.Background(), 5, models.StatusOpen, "teacher-1"))
	assert.Equal(t, models.StatusOpen, repo.current[5])
}

func TestLifecycleServiceSetStatusUnknownValue(t *testing.T) {
	repo := &fakeLifecycleRepo{current: map[int64]models.ComplaintStatus{5: models.StatusOpen}}
	svc := NewLifecycleService(repo, nil, nil)

	err := svc.SetStatus(context.Background(), 5, "Pending", "teacher-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.transitions)
}

func TestLifecycleServiceSetStatusUnknownComplaint(t *testing.T) {
	repo := &fakeLifecycleRepo{current: map[int64]models.ComplaintStatus{}}
	svc := NewLifecycleService(repo, nil, nil)

	err := svc.SetStatus(context.Background(), 404, models.StatusResolved, "teacher-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestLifecycleServiceHistoryEmptyForUnknown(t *testing.T) {
	svc := NewLifecycleService(&fakeLifecycleRepo{}, nil, nil)

	entries, err := svc.History(context.Background(), 404)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
