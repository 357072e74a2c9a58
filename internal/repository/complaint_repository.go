package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-complaint-api/internal/models"
)

const complaintColumns = `id, user_id, name, roll_no, department, course, gender, complaint, category, priority, status, submitted_at, updated_at`

// ComplaintRepository provides database access for complaint records and
// their status history.
type ComplaintRepository struct {
	db *sqlx.DB
}

// NewComplaintRepository creates a new instance of ComplaintRepository.
func NewComplaintRepository(db *sqlx.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

// Create inserts a new complaint and fills in the allocated identifier.
// Identifiers come from a sequence, so they are strictly increasing.
func (r *ComplaintRepository) Create(ctx context.Context, c *models.Complaint) error {
	now := time.Now().UTC()
	if c.SubmittedAt.IsZero() {
		c.SubmittedAt = now
	}
	c.UpdatedAt = c.SubmittedAt

	const query = `INSERT INTO complaints (user_id, name, roll_no, department, course, gender, complaint, category, priority, status, submitted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		c.UserID, c.Name, c.RollNo, c.Department, c.Course, c.Gender,
		c.Body, c.Category, c.Priority, c.Status, c.SubmittedAt, c.UpdatedAt,
	).Scan(&c.ID); err != nil {
		return fmt.Errorf("create complaint: %w", err)
	}
	return nil
}

// FindByID returns a complaint joined with the owner's display fields.
func (r *ComplaintRepository) FindByID(ctx context.Context, id int64) (*models.ComplaintDetail, error) {
	const query = `SELECT c.id, c.user_id, c.name, c.roll_no, c.department, c.course, c.gender, c.complaint,
		c.category, c.priority, c.status, c.submitted_at, c.updated_at,
		u.full_name AS submitter_name, u.email AS submitter_email
		FROM complaints c JOIN users u ON u.id = c.user_id WHERE c.id = $1`
	var detail models.ComplaintDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find complaint by id: %w", err)
	}
	return &detail, nil
}

// ListByOwner returns the owner's complaints, newest submission first.
func (r *ComplaintRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Complaint, error) {
	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE user_id = $1 ORDER BY submitted_at DESC`, complaintColumns)
	complaints := []models.Complaint{}
	if err := r.db.SelectContext(ctx, &complaints, query, ownerID); err != nil {
		return nil, fmt.Errorf("list complaints by owner: %w", err)
	}
	return complaints, nil
}

// Search returns complaints matching the filter, newest submission first.
// The text query matches name, body and roll number case-insensitively;
// the remaining dimensions are exact and combined with AND.
func (r *ComplaintRepository) Search(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("SELECT %s FROM complaints WHERE 1=1", complaintColumns))
	var args []interface{}

	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		builder.WriteString(fmt.Sprintf(" AND (LOWER(name) LIKE $%d OR LOWER(complaint) LIKE $%d OR LOWER(roll_no) LIKE $%d)", len(args), len(args), len(args)))
	}
	if constrained(filter.Status) {
		args = append(args, filter.Status)
		builder.WriteString(fmt.Sprintf(" AND status = $%d", len(args)))
	}
	if constrained(filter.Category) {
		args = append(args, filter.Category)
		builder.WriteString(fmt.Sprintf(" AND category = $%d", len(args)))
	}
	if constrained(filter.Priority) {
		args = append(args, filter.Priority)
		builder.WriteString(fmt.Sprintf(" AND priority = $%d", len(args)))
	}
	builder.WriteString(" ORDER BY submitted_at DESC")

	complaints := []models.Complaint{}
	if err := r.db.SelectContext(ctx, &complaints, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("search complaints: %w", err)
	}
	return complaints, nil
}

// UpdateStatus applies a status transition and appends the audit entry in a
// single transaction. The row lock serializes concurrent transitions on the
// same complaint, so the history reflects every accepted transition in order.
// Returns the prior status, or sql.ErrNoRows for an unknown id.
func (r *ComplaintRepository) UpdateStatus(ctx context.Context, id int64, newStatus models.ComplaintStatus, actorID string) (models.ComplaintStatus, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin status update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var oldStatus models.ComplaintStatus
	if err := tx.GetContext(ctx, &oldStatus, `SELECT status FROM complaints WHERE id = $1 FOR UPDATE`, id); err != nil {
		if err == sql.ErrNoRows {
			return "", err
		}
		return "", fmt.Errorf("read current status: %w", err)
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `UPDATE complaints SET status = $2, updated_at = $3 WHERE id = $1`, id, newStatus, now); err != nil {
		return "", fmt.Errorf("update status: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO status_history (complaint_id, old_status, new_status, changed_by, changed_at) VALUES ($1, $2, $3, $4, $5)`,
		id, oldStatus, newStatus, actorID, now,
	); err != nil {
		return "", fmt.Errorf("append status history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit status update: %w", err)
	}
	return oldStatus, nil
}

// DeleteCascade removes a complaint together with its responses and status
// history in one transaction. Deleting a nonexistent id is a no-op.
func (r *ComplaintRepository) DeleteCascade(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cascade delete: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM complaint_responses WHERE complaint_id = $1`, id); err != nil {
		return fmt.Errorf("delete complaint responses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM status_history WHERE complaint_id = $1`, id); err != nil {
		return fmt.Errorf("delete status history: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM complaints WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete complaint: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cascade delete: %w", err)
	}
	return nil
}

// ListHistory returns the status trail joined with actor names, oldest first.
// An unknown complaint id yields an empty slice, never an error.
func (r *ComplaintRepository) ListHistory(ctx context.Context, complaintID int64) ([]models.StatusHistoryDetail, error) {
	const query = `SELECT sh.id, sh.complaint_id, sh.old_status, sh.new_status, sh.changed_by, sh.changed_at,
		u.full_name AS changed_by_name
		FROM status_history sh JOIN users u ON u.id = sh.changed_by
		WHERE sh.complaint_id = $1 ORDER BY sh.changed_at ASC`
	entries := []models.StatusHistoryDetail{}
	if err := r.db.SelectContext(ctx, &entries, query, complaintID); err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	return entries, nil
}

func constrained(value string) bool {
	return value != "" && value != "All"
}
