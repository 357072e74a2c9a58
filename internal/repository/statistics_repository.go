package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-complaint-api/internal/models"
)

// StatisticsRepository computes grouped counts over the complaint set.
// Read-only; every call recomputes from the live table.
type StatisticsRepository struct {
	db *sqlx.DB
}

// NewStatisticsRepository creates a new instance of StatisticsRepository.
func NewStatisticsRepository(db *sqlx.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// Collect gathers the total and the per-dimension groupings. Groupings only
// contain keys with at least one complaint.
func (r *StatisticsRepository) Collect(ctx context.Context) (*models.ComplaintStatistics, error) {
	stats := &models.ComplaintStatistics{}

	if err := r.db.GetContext(ctx, &stats.Total, `SELECT COUNT(*) FROM complaints`); err != nil {
		return nil, fmt.Errorf("count complaints: %w", err)
	}

	var err error
	if stats.ByStatus, err = r.groupCount(ctx, "status"); err != nil {
		return nil, err
	}
	if stats.ByCategory, err = r.groupCount(ctx, "category"); err != nil {
		return nil, err
	}
	if stats.ByPriority, err = r.groupCount(ctx, "priority"); err != nil {
		return nil, err
	}
	if stats.ByDepartment, err = r.groupCount(ctx, "department"); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *StatisticsRepository) groupCount(ctx context.Context, column string) (map[string]int, error) {
	// column is one of four fixed names above, never caller input.
	query := fmt.Sprintf(`SELECT %s AS key, COUNT(*) AS count FROM complaints GROUP BY %s`, column, column)

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("group complaints by %s: %w", column, err)
	}
	defer rows.Close() //nolint:errcheck

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("scan %s group row: %w", column, err)
		}
		counts[key] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s groups: %w", column, err)
	}
	return counts, nil
}
