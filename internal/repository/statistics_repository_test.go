package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsRepositoryCollect(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewStatisticsRepository(sqlx.NewDb(db, "sqlmock"))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM complaints")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status AS key, COUNT(*) AS count FROM complaints GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"key", "count"}).AddRow("Open", 3).AddRow("Resolved", 2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT category AS key, COUNT(*) AS count FROM complaints GROUP BY category")).
		WillReturnRows(sqlmock.NewRows([]string{"key", "count"}).AddRow("Hostel", 5))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT priority AS key, COUNT(*) AS count FROM complaints GROUP BY priority")).
		WillReturnRows(sqlmock.NewRows([]string{"key", "count"}).AddRow("Medium", 4).AddRow("High", 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT department AS key, COUNT(*) AS count FROM complaints GROUP BY department")).
		WillReturnRows(sqlmock.NewRows([]string{"key", "count"}).AddRow("CSE", 5))

	stats, err := repo.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, map[string]int{"Open": 3, "Resolved": 2}, stats.ByStatus)
	assert.Equal(t, map[string]int{"Hostel": 5}, stats.ByCategory)
	assert.Equal(t, map[string]int{"Medium": 4, "High": 1}, stats.ByPriority)
	assert.Equal(t, map[string]int{"CSE": 5}, stats.ByDepartment)
	assert.NoError(t, mock.ExpectationsWereMet())
}
