package models

import "time"

// ResponseEntry is one staff response attached to a complaint. Entries are
// append-only and never mutated.
type ResponseEntry struct {
	ID          int64     `db:"id" json:"id"`
	ComplaintID int64     `db:"complaint_id" json:"complaint_id"`
	ResponderID string    `db:"responder_id" json:"responder_id"`
	Body        string    `db:"response" json:"response"`
	RespondedAt time.Time `db:"responded_at" json:"responded_at"`
}

// ResponseDetail joins the responder's display name and role for presentation.
type ResponseDetail struct {
	ResponseEntry
	ResponderName string   `db:"responder_name" json:"responder_name"`
	ResponderRole UserRole `db:"responder_role" json:"responder_role"`
}
