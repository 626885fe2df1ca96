package model

// RegistrationView is a registration joined with the display data the
// engine resolves on behalf of callers: student name, project title and
// the owning staff member's name.
type RegistrationView struct {
	Registration Registration
	StudentName  string
	ProjectTitle string
	StaffName    string
}

// BatchOutcome is the per-project result of a batch interest
// registration. Exactly one of Registration or Err is set: an accepted
// entry carries the stored registration, a rejected entry carries the
// reason it was refused.
type BatchOutcome struct {
	ProjectID    ProjectID
	Accepted     bool
	Registration *Registration
	Err          error
}

// BatchReport aggregates the element-wise outcomes of a batch interest
// registration. Partial failure is the designed outcome; the report is
// always returned, never an error.
type BatchReport struct {
	Accepted int
	Rejected int
	Outcomes []BatchOutcome
}

// AssignmentResult is returned by a successful assignment: the promoted
// registration together with the now-closed project.
type AssignmentResult struct {
	Registration Registration
	Project      Project
}
