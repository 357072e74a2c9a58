package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-complaint-api/internal/middleware"
	"github.com/noah-isme/campus-complaint-api/internal/models"
	"github.com/noah-isme/campus-complaint-api/internal/service"
)

type stubComplaintRepo struct {
	created []models.Complaint
}

func (s *stubComplaintRepo) Create(_ context.Context, c *models.Complaint) error {
	c.ID = int64(len(s.created) + 1)
	s.created = append(s.created, *c)
	return nil
}

func (s *stubComplaintRepo) FindByID(_ context.Context, id int64) (*models.ComplaintDetail, error) {
	for _, c := range s.created {
		if c.ID == id {
			return &models.ComplaintDetail{Complaint: c}, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubComplaintRepo) ListByOwner(context.Context, string) ([]models.Complaint, error) {
	return s.created, nil
}

func (s *stubComplaintRepo) Search(context.Context, models.ComplaintFilter) ([]models.Complaint, error) {
	return s.created, nil
}

func (s *stubComplaintRepo) DeleteCascade(context.Context, int64) error { return nil }

func newTestComplaintHandler(repo *stubComplaintRepo) *ComplaintHandler {
	svc := service.NewComplaintService(repo, nil, nil, nil)
	return NewComplaintHandler(svc, nil, nil, nil)
}

func withClaims(c *gin.Context) {
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Username: "asha", Role: models.RoleStudent})
}

func TestComplaintHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubComplaintRepo{}
	handler := newTestComplaintHandler(repo)

	payload := `{"name":"Asha Rao","roll_no":"CS-101","department":"CSE","course":"B.Tech","gender":"Female","complaint":"The hostel water supply keeps failing","category":"Hostel"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/complaints", strings.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	withClaims(c)

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "u1", repo.created[0].UserID)
	assert.Equal(t, models.StatusOpen, repo.created[0].Status)
}

func TestComplaintHandlerCreateInvalidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestComplaintHandler(&stubComplaintRepo{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/complaints", strings.NewReader(`{"complaint":"too short"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	withClaims(c)

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComplaintHandlerCreateWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestComplaintHandler(&stubComplaintRepo{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/complaints", strings.NewReader(`{}`))

	handler.Create(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestComplaintHandlerGetInvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestComplaintHandler(&stubComplaintRepo{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/complaints/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Get(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComplaintHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestComplaintHandler(&stubComplaintRepo{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/complaints/9", nil)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	withClaims(c)

	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComplaintHandlerGetBlocksForeignOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubComplaintRepo{}
	handler := newTestComplaintHandler(repo)

	// Seed a complaint owned by someone else.
	require.NoError(t, repo.Create(context.Background(), &models.Complaint{UserID: "other"}))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/complaints/1", nil)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	withClaims(c)

	handler.Get(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
