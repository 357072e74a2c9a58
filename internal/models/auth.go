package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RegisterRequest carries a registration attempt. All field checks happen
// here at the boundary; the repositories assume pre-validated input.
type RegisterRequest struct {
	Username   string   `json:"username" validate:"required,min=3,max=64"`
	Password   string   `json:"password" validate:"required,min=6"`
	Role       UserRole `json:"role" validate:"required,oneof=Student Teacher"`
	FullName   string   `json:"full_name" validate:"required"`
	Email      string   `json:"email" validate:"required,email"`
	Department string   `json:"department" validate:"required"`
	RollNo     string   `json:"roll_no" validate:"required_if=Role Student"`
}

// LoginRequest carries an authentication attempt. Username, password and the
// declared role must all match; no mismatch is distinguished to the caller.
type LoginRequest struct {
	Username string   `json:"username" validate:"required"`
	Password string   `json:"password" validate:"required"`
	Role     UserRole `json:"role" validate:"required,oneof=Student Teacher"`
}

// UserInfo is the account payload embedded in a login response.
type UserInfo struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	FullName   string   `json:"full_name"`
	Email      string   `json:"email"`
	Department string   `json:"department"`
	RollNo     *string  `json:"roll_no,omitempty"`
	Role       UserRole `json:"role"`
}

// LoginResponse is returned after successful authentication.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	User        UserInfo  `json:"user"`
}

// JWTClaims is the access token payload.
type JWTClaims struct {
	UserID   string   `json:"uid"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
	jwt.RegisteredClaims
}
