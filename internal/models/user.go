package models

import "time"

// UserRole is declared at registration and never changes afterwards.
type UserRole string

const (
	RoleStudent UserRole = "Student"
	RoleTeacher UserRole = "Teacher"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// User represents a registered account stored in the users table.
// RollNo is present for students and absent for teachers.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	FullName     string    `db:"full_name" json:"full_name"`
	Email        string    `db:"email" json:"email"`
	Department   string    `db:"department" json:"department"`
	RollNo       *string   `db:"roll_no" json:"roll_no,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
