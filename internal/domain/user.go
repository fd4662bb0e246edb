package domain

import (
	"strings"
	"time"
)

// Role governs field-level write permission over assets.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleAssetIncharge Role = "asset_incharge"
	RoleUser          Role = "user"
)

// User represents an authenticated account of the system.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Email        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName returns "First Last", falling back to the username when both
// name parts are empty.
func (u User) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.Username
	}
	return name
}

// UserProfile carries the employment attributes of a User. Every account
// consulted by the asset core is expected to have exactly one profile.
type UserProfile struct {
	ID         int64
	UserID     int64
	Role       Role
	EmployeeID string
	Department string
	Phone      string
}
