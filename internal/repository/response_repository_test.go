package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-complaint-api/internal/models"
)

func newResponseRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestResponseRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newResponseRepoMock(t)
	defer cleanup()
	repo := NewResponseRepository(db)

	mock.ExpectQuery("INSERT INTO complaint_responses").
		WithArgs(int64(2), "teacher-1", "We have ordered a replacement projector", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	entry := &models.ResponseEntry{
		ComplaintID: 2,
		ResponderID: "teacher-1",
		Body:        "We have ordered a replacement projector",
	}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.Equal(t, int64(11), entry.ID)
	assert.False(t, entry.RespondedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResponseRepositoryListByComplaint(t *testing.T) {
	db, mock, cleanup := newResponseRepoMock(t)
	defer cleanup()
	repo := NewResponseRepository(db)

	rows := sqlmock.NewRows([]string{"id", "complaint_id", "responder_id", "response", "responded_at", "responder_name", "responder_role"}).
		AddRow(int64(1), int64(2), "teacher-1", "Looking into it", time.Now().Add(-time.Hour), "Prof. Rao", "Teacher").
		AddRow(int64(2), int64(2), "teacher-1", "Resolved today", time.Now(), "Prof. Rao", "Teacher")
	mock.ExpectQuery("SELECT cr.id, cr.complaint_id").
		WithArgs(int64(2)).
		WillReturnRows(rows)

	list, err := repo.ListByComplaint(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Looking into it", list[0].Body)
	assert.Equal(t, "Prof. Rao", list[0].ResponderName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
