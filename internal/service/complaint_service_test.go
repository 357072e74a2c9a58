package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-complaint-api/internal/models"
	appErrors "github.com/noah-isme/campus-complaint-api/pkg/errors"
)

type fakeComplaintRepo struct {
	complaints map[int64]*models.Complaint
	nextID     int64
	deleted    []int64
	searchGot  models.ComplaintFilter
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{complaints: map[int64]*models.Complaint{}, nextID: 1}
}

func (f *fakeComplaintRepo) Create(_ context.Context, c *models.Complaint) error {
	c.ID = f.nextID
	f.nextID++
	stored := *c
	f.complaints[c.ID] = &stored
	return nil
}

func (f *fakeComplaintRepo) FindByID(_ context.Context, id int64) (*models.ComplaintDetail, error) {
	c, ok := f.complaints[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.ComplaintDetail{Complaint: *c, SubmitterName: "Asha Rao", SubmitterEmail: "asha@college.edu"}, nil
}

func (f *fakeComplaintRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Complaint, error) {
	var out []models.Complaint
	for _, c := range f.complaints {
		if c.UserID == ownerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeComplaintRepo) Search(_ context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	f.searchGot = filter
	var out []models.Complaint
	for _, c := range f.complaints {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeComplaintRepo) DeleteCascade(_ context.Context, id int64) error {
	delete(f.complaints, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func validSubmission() CreateComplaintRequest {
	return CreateComplaintRequest{
		Name:     "Asha Rao",
		RollNo:   "CS-101",
		Dept:     "CSE",
		Course:   "B.Tech",
		Gender:   "Female",
		Body:     "The hostel water supply has been failing every morning",
		Category: "Hostel",
	}
}

func TestComplaintServiceCreateDefaults(t *testing.T) {
	repo := newFakeComplaintRepo()
	svc := NewComplaintService(repo, nil, nil, nil)

	c, err := svc.Create(context.Background(), "u1", validSubmission())
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)
	assert.Equal(t, models.StatusOpen, c.Status)
	assert.Equal(t, models.PriorityMedium, c.Priority)
	assert.Equal(t, "u1", c.UserID)
}

func TestComplaintServiceCreateKeepsExplicitPriority(t *testing.T) {
	svc := NewComplaintService(newFakeComplaintRepo(), nil, nil, nil)

	req := validSubmission()
	req.Priority = "Critical"
	c, err := svc.Create(context.Background(), "u1", req)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityCritical, c.Priority)
}

func TestComplaintServiceCreateBodyLength(t *testing.T) {
	svc := NewComplaintService(newFakeComplaintRepo(), nil, nil, nil)

	req := validSubmission()
	req.Body = strings.Repeat("x", 19)
	_, err := svc.Create(context.Background(), "u1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req.Body = strings.Repeat("x", 20)
	_, err = svc.Create(context.Background(), "u1", req)
	assert.NoError(t, err)
}

func TestComplaintServiceCreateRejectsUnknownPriority(t *testing.T) {
	svc := NewComplaintService(newFakeComplaintRepo(), nil, nil, nil)

	req := validSubmission()
	req.Priority = "Urgent"
	_, err := svc.Create(context.Background(), "u1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestComplaintServiceGetNotFound(t *testing.T) {
	svc := NewComplaintService(newFakeComplaintRepo(), nil, nil, nil)

	_, err := svc.Get(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestComplaintServiceDeleteUnknownIDIsNoOp(t *testing.T) {
	repo := newFakeComplaintRepo()
	svc := NewComplaintService(repo, nil, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), 42))
	assert.Equal(t, []int64{42}, repo.deleted)
}

func TestComplaintServiceSearchPassesFilter(t *testing.T) {
	repo := newFakeComplaintRepo()
	svc := NewComplaintService(repo, nil, nil, nil)

	filter := models.ComplaintFilter{Search: "water", Status: "Open", Category: "Hostel", Priority: "High"}
	_, err := svc.Search(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, filter, repo.searchGot)
}
