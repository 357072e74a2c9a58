package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Schema bootstrap. The service owns its five relations and creates them
// idempotently at startup; category and admin seeding happen afterwards in
// their repositories.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL DEFAULT '',
		roll_no TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS complaints (
		id BIGSERIAL PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		name TEXT NOT NULL,
		roll_no TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL,
		course TEXT NOT NULL,
		gender TEXT NOT NULL,
		complaint TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT 'Other',
		priority TEXT NOT NULL DEFAULT 'Medium',
		status TEXT NOT NULL DEFAULT 'Open',
		submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS complaint_responses (
		id BIGSERIAL PRIMARY KEY,
		complaint_id BIGINT NOT NULL REFERENCES complaints(id),
		responder_id UUID NOT NULL REFERENCES users(id),
		response TEXT NOT NULL,
		responded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS status_history (
		id BIGSERIAL PRIMARY KEY,
		complaint_id BIGINT NOT NULL REFERENCES complaints(id),
		old_status TEXT,
		new_status TEXT NOT NULL,
		changed_by UUID NOT NULL REFERENCES users(id),
		changed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS export_jobs (
		id UUID PRIMARY KEY,
		format TEXT NOT NULL,
		params JSONB NOT NULL DEFAULT '{}',
		status TEXT NOT NULL,
		result_url TEXT,
		created_by UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		finished_at TIMESTAMPTZ,
		error_message TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_user_id ON complaints(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_submitted_at ON complaints(submitted_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_responses_complaint_id ON complaint_responses(complaint_id)`,
	`CREATE INDEX IF NOT EXISTS idx_history_complaint_id ON status_history(complaint_id)`,
}

// Bootstrap creates the schema if it does not exist yet.
func Bootstrap(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}
