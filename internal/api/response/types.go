package response

import (
	"time"

	"github.com/projalloc/projalloc/internal/api/apierr"
	"github.com/projalloc/projalloc/internal/model"
	"github.com/projalloc/projalloc/internal/services/identity"
)

// User represents a user in API responses
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:   string(u.ID),
		Name: u.Name,
		Role: string(u.Role),
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *identity.Session) AuthResponse {
	return AuthResponse{
		User:         UserFromModel(&s.User),
		SessionToken: s.Token,
	}
}

// Project represents a project in API responses
type Project struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	OwnerID      string    `json:"owner_id"`
	Availability string    `json:"availability"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProjectFromModel converts model.Project
func ProjectFromModel(p *model.Project) Project {
	return Project{
		ID:           string(p.ID),
		Title:        p.Title,
		Description:  p.Description,
		OwnerID:      string(p.OwnerID),
		Availability: string(p.Availability),
		CreatedAt:    p.CreatedAt,
	}
}

// ProjectListFromModel converts a slice of model.Project
func ProjectListFromModel(projects []*model.Project) []Project {
	out := make([]Project, len(projects))
	for i, p := range projects {
		out[i] = ProjectFromModel(p)
	}
	return out
}

// Registration represents a registration in API responses
type Registration struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	StudentID string    `json:"student_id"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

// RegistrationFromModel converts model.Registration
func RegistrationFromModel(r *model.Registration) Registration {
	return Registration{
		ID:        string(r.ID),
		ProjectID: string(r.ProjectID),
		StudentID: string(r.StudentID),
		State:     string(r.State),
		CreatedAt: r.CreatedAt,
	}
}

// RegistrationView is a registration joined with display data
type RegistrationView struct {
	Registration
	StudentName  string `json:"student_name"`
	ProjectTitle string `json:"project_title"`
	StaffName    string `json:"staff_name"`
}

// RegistrationViewFromModel converts model.RegistrationView
func RegistrationViewFromModel(v *model.RegistrationView) RegistrationView {
	return RegistrationView{
		Registration: RegistrationFromModel(&v.Registration),
		StudentName:  v.StudentName,
		ProjectTitle: v.ProjectTitle,
		StaffName:    v.StaffName,
	}
}

// RegistrationViewListFromModel converts a slice of model.RegistrationView
func RegistrationViewListFromModel(views []*model.RegistrationView) []RegistrationView {
	out := make([]RegistrationView, len(views))
	for i, v := range views {
		out[i] = RegistrationViewFromModel(v)
	}
	return out
}

// BatchOutcome is the per-project result in a batch report
type BatchOutcome struct {
	ProjectID    string        `json:"project_id"`
	Accepted     bool          `json:"accepted"`
	Registration *Registration `json:"registration,omitempty"`
	Code         string        `json:"code,omitempty"`
	Reason       string        `json:"reason,omitempty"`
}

// BatchReport is the aggregate result of a batch registration
type BatchReport struct {
	Accepted int            `json:"accepted"`
	Rejected int            `json:"rejected"`
	Outcomes []BatchOutcome `json:"outcomes"`
}

// BatchReportFromModel converts model.BatchReport, rendering each
// rejection's error as its stable code and message
func BatchReportFromModel(r *model.BatchReport) BatchReport {
	outcomes := make([]BatchOutcome, len(r.Outcomes))
	for i, o := range r.Outcomes {
		outcome := BatchOutcome{
			ProjectID: string(o.ProjectID),
			Accepted:  o.Accepted,
		}
		if o.Registration != nil {
			reg := RegistrationFromModel(o.Registration)
			outcome.Registration = &reg
		}
		if o.Err != nil {
			desc := apierr.Describe(o.Err)
			outcome.Code = desc.Code
			outcome.Reason = desc.Message
		}
		outcomes[i] = outcome
	}
	return BatchReport{
		Accepted: r.Accepted,
		Rejected: r.Rejected,
		Outcomes: outcomes,
	}
}

// AssignmentResult is the response for a successful assignment
type AssignmentResult struct {
	Registration Registration `json:"registration"`
	Project      Project      `json:"project"`
}

// AssignmentResultFromModel converts model.AssignmentResult
func AssignmentResultFromModel(r *model.AssignmentResult) AssignmentResult {
	return AssignmentResult{
		Registration: RegistrationFromModel(&r.Registration),
		Project:      ProjectFromModel(&r.Project),
	}
}

// AssignedStatus reports whether a student holds an assignment
type AssignedStatus struct {
	StudentID string `json:"student_id"`
	Assigned  bool   `json:"assigned"`
}
