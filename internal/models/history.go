package models

import "time"

// StatusHistoryEntry is the audit record written for every status transition.
// OldStatus is nullable in the schema but in practice always set, since
// complaints start at Open. Entries are append-only; they are removed only by
// the cascade when the parent complaint is deleted.
type StatusHistoryEntry struct {
	ID          int64            `db:"id" json:"id"`
	ComplaintID int64            `db:"complaint_id" json:"complaint_id"`
	OldStatus   *ComplaintStatus `db:"old_status" json:"old_status,omitempty"`
	NewStatus   ComplaintStatus  `db:"new_status" json:"new_status"`
	ChangedBy   string           `db:"changed_by" json:"changed_by"`
	ChangedAt   time.Time        `db:"changed_at" json:"changed_at"`
}

// StatusHistoryDetail joins the actor's display name.
type StatusHistoryDetail struct {
	StatusHistoryEntry
	ChangedByName string `db:"changed_by_name" json:"changed_by_name"`
}
