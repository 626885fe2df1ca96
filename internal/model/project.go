package model

import "time"

// ProjectID uniquely identifies a project
type ProjectID string

// Availability represents whether a project can still accept an assignment
type Availability string

const (
	AvailabilityOpen   Availability = "open"
	AvailabilityClosed Availability = "closed"
)

// Project is a unit of work offered by a staff member, open for student
// interest until it is closed by an assignment or explicit retirement.
// Open -> Closed is one-way; there is no reopening transition.
type Project struct {
	ID           ProjectID
	Title        string
	Description  string
	OwnerID      UserID // staff member who created the project
	Availability Availability
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Open reports whether the project can still accept registrations and
// an assignment
func (p *Project) Open() bool {
	return p.Availability == AvailabilityOpen
}
