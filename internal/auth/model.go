// Package auth handles operator accounts and bearer-token sessions.
package auth

import (
	"time"

	"github.com/google/uuid"
)

// Role gates access to mutating endpoints.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// User is one operator account. PasswordHash is a bcrypt hash and never
// leaves the package.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
