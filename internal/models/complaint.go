package models

import "time"

// ComplaintStatus is the lifecycle state of a complaint. Every status may move
// to every other status; staff use that freedom to correct mistaken updates.
type ComplaintStatus string

const (
	StatusOpen       ComplaintStatus = "Open"
	StatusInProgress ComplaintStatus = "In Progress"
	StatusResolved   ComplaintStatus = "Resolved"
	StatusClosed     ComplaintStatus = "Closed"
)

// Valid reports whether the status is one of the known values.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// ComplaintPriority ranks urgency.
type ComplaintPriority string

const (
	PriorityLow      ComplaintPriority = "Low"
	PriorityMedium   ComplaintPriority = "Medium"
	PriorityHigh     ComplaintPriority = "High"
	PriorityCritical ComplaintPriority = "Critical"
)

// Valid reports whether the priority is one of the known values.
func (p ComplaintPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Complaint is a submitted grievance record. Name, roll number, department,
// course and gender are snapshots taken at submission time; editing the
// account later never rewrites historical complaints.
type Complaint struct {
	ID          int64             `db:"id" json:"id"`
	UserID      string            `db:"user_id" json:"user_id"`
	Name        string            `db:"name" json:"name"`
	RollNo      string            `db:"roll_no" json:"roll_no"`
	Department  string            `db:"department" json:"department"`
	Course      string            `db:"course" json:"course"`
	Gender      string            `db:"gender" json:"gender"`
	Body        string            `db:"complaint" json:"complaint"`
	Category    string            `db:"category" json:"category"`
	Priority    ComplaintPriority `db:"priority" json:"priority"`
	Status      ComplaintStatus   `db:"status" json:"status"`
	SubmittedAt time.Time         `db:"submitted_at" json:"submitted_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

// ComplaintDetail joins the owning account's display fields.
type ComplaintDetail struct {
	Complaint
	SubmitterName  string `db:"submitter_name" json:"submitter_name"`
	SubmitterEmail string `db:"submitter_email" json:"submitter_email"`
}

// ComplaintFilter captures the optional search dimensions. An empty value or
// the literal "All" leaves a dimension unconstrained.
type ComplaintFilter struct {
	Search   string
	Status   string
	Category string
	Priority string
}
