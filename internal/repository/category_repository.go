package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-complaint-api/internal/models"
)

// CategoryRepository provides database access for the category registry.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// EnsureDefaults seeds the default categories. Duplicate names are skipped,
// so running it at every startup is safe.
func (r *CategoryRepository) EnsureDefaults(ctx context.Context) error {
	const query = `INSERT INTO categories (name, description) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`
	for _, cat := range models.DefaultCategories() {
		if _, err := r.db.ExecContext(ctx, query, cat.Name, cat.Description); err != nil {
			return fmt.Errorf("seed category %s: %w", cat.Name, err)
		}
	}
	return nil
}

// ListNames returns all category names in alphabetical order.
func (r *CategoryRepository) ListNames(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := r.db.SelectContext(ctx, &names, `SELECT name FROM categories ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return names, nil
}
