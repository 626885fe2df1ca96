package model

import "time"

// UserID uniquely identifies a user across the system
type UserID string

// Role distinguishes the two kinds of users
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
)

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleStaff
}

// User represents a student or staff member.
// Identity data is immutable once created; the allocation engine
// never mutates users.
type User struct {
	ID        UserID
	Name      string
	Role      Role
	CreatedAt time.Time
}

// Account holds a user's login credentials
// Stored separately from User so credential data never travels with
// the identity record.
type Account struct {
	UserID       UserID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
