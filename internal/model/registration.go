package model

import "time"

// RegistrationID uniquely identifies a registration
type RegistrationID string

// RegistrationState represents the state of a registration
type RegistrationState string

const (
	// RegistrationInterested is the initial state: the student has
	// declared interest but no staff decision has been made.
	RegistrationInterested RegistrationState = "interested"
	// RegistrationAssigned is the terminal state: the project's staff
	// owner has assigned the student. There is no demotion back to
	// interested.
	RegistrationAssigned RegistrationState = "assigned"
)

// Registration is a student's declared interest in a project.
// At most one registration exists per (project, student) pair.
type Registration struct {
	ID        RegistrationID
	ProjectID ProjectID
	StudentID UserID
	State     RegistrationState
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Assigned reports whether the registration has been promoted to an
// assignment
func (r *Registration) Assigned() bool {
	return r.State == RegistrationAssigned
}
