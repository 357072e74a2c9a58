package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-complaint-api/internal/models"
)

// ResponseRepository provides database access for the append-only response log.
type ResponseRepository struct {
	db *sqlx.DB
}

// NewResponseRepository creates a new instance of ResponseRepository.
func NewResponseRepository(db *sqlx.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// Create appends a response entry and fills in the allocated identifier.
func (r *ResponseRepository) Create(ctx context.Context, entry *models.ResponseEntry) error {
	if entry.RespondedAt.IsZero() {
		entry.RespondedAt = time.Now().UTC()
	}
	const query = `INSERT INTO complaint_responses (complaint_id, responder_id, response, responded_at) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, entry.ComplaintID, entry.ResponderID, entry.Body, entry.RespondedAt).Scan(&entry.ID); err != nil {
		return fmt.Errorf("create response: %w", err)
	}
	return nil
}

// ListByComplaint returns responses joined with responder name and role,
// oldest first. An unknown complaint id yields an empty slice.
func (r *ResponseRepository) ListByComplaint(ctx context.Context, complaintID int64) ([]models.ResponseDetail, error) {
	const query = `SELECT cr.id, cr.complaint_id, cr.responder_id, cr.response, cr.responded_at,
		u.full_name AS responder_name, u.role AS responder_role
		FROM complaint_responses cr JOIN users u ON u.id = cr.responder_id
		WHERE cr.complaint_id = $1 ORDER BY cr.responded_at ASC`
	responses := []models.ResponseDetail{}
	if err := r.db.SelectContext(ctx, &responses, query, complaintID); err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	return responses, nil
}
