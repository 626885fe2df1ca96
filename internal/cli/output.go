package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case AuthResult:
		o.printAuthResult(v)
	case Project:
		o.printProject(v)
	case []Project:
		o.printProjectList(v)
	case Registration:
		o.printRegistration(v)
	case []RegistrationView:
		o.printRegistrationViews(v)
	case BatchReport:
		o.printBatchReport(v)
	case AssignmentResult:
		o.printAssignmentResult(v)
	case AssignedStatus:
		o.printAssignedStatus(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// AuthResult combines user and token
type AuthResult struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// Project response type
type Project struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	OwnerID      string    `json:"owner_id"`
	Availability string    `json:"availability"`
	CreatedAt    time.Time `json:"created_at"`
}

// Registration response type
type Registration struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	StudentID string    `json:"student_id"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

// RegistrationView response type
type RegistrationView struct {
	Registration
	StudentName  string `json:"student_name"`
	ProjectTitle string `json:"project_title"`
	StaffName    string `json:"staff_name"`
}

// BatchOutcome response type
type BatchOutcome struct {
	ProjectID    string        `json:"project_id"`
	Accepted     bool          `json:"accepted"`
	Registration *Registration `json:"registration,omitempty"`
	Code         string        `json:"code,omitempty"`
	Reason       string        `json:"reason,omitempty"`
}

// BatchReport response type
type BatchReport struct {
	Accepted int            `json:"accepted"`
	Rejected int            `json:"rejected"`
	Outcomes []BatchOutcome `json:"outcomes"`
}

// AssignmentResult response type
type AssignmentResult struct {
	Registration Registration `json:"registration"`
	Project      Project      `json:"project"`
}

// AssignedStatus response type
type AssignedStatus struct {
	StudentID string `json:"student_id"`
	Assigned  bool   `json:"assigned"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	fmt.Printf("User: %s (%s)\n", u.Name, u.ID)
	fmt.Printf("Role: %s\n", u.Role)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printProject(p Project) {
	fmt.Printf("Project: %s (%s)\n", p.Title, p.ID)
	fmt.Printf("Availability: %s\n", p.Availability)
	fmt.Printf("Owner: %s\n", p.OwnerID)
	if p.Description != "" {
		fmt.Printf("Description: %s\n", p.Description)
	}
}

func (o *Output) printProjectList(projects []Project) {
	if len(projects) == 0 {
		fmt.Println("No projects")
		return
	}
	fmt.Printf("Projects (%d):\n", len(projects))
	for _, p := range projects {
		fmt.Printf("  - %s (%s) [%s]\n", p.Title, p.ID, p.Availability)
	}
}

func (o *Output) printRegistration(r Registration) {
	fmt.Printf("Registration: %s\n", r.ID)
	fmt.Printf("Project: %s\n", r.ProjectID)
	fmt.Printf("Student: %s\n", r.StudentID)
	fmt.Printf("State: %s\n", r.State)
}

func (o *Output) printRegistrationViews(views []RegistrationView) {
	if len(views) == 0 {
		fmt.Println("No registrations")
		return
	}
	fmt.Printf("Registrations (%d):\n", len(views))
	for _, v := range views {
		fmt.Printf("  - %s: %s -> %s [%s]\n", v.ID, v.StudentName, v.ProjectTitle, v.State)
	}
}

func (o *Output) printBatchReport(r BatchReport) {
	fmt.Printf("Accepted: %d, Rejected: %d\n", r.Accepted, r.Rejected)
	for _, out := range r.Outcomes {
		if out.Accepted {
			fmt.Printf("  - %s: registered (%s)\n", out.ProjectID, out.Registration.ID)
		} else {
			fmt.Printf("  - %s: rejected - %s (%s)\n", out.ProjectID, out.Reason, out.Code)
		}
	}
}

func (o *Output) printAssignmentResult(a AssignmentResult) {
	fmt.Printf("Assigned %s to %s\n", a.Registration.StudentID, a.Project.Title)
	fmt.Printf("Registration: %s [%s]\n", a.Registration.ID, a.Registration.State)
	fmt.Printf("Project: %s [%s]\n", a.Project.ID, a.Project.Availability)
}

func (o *Output) printAssignedStatus(s AssignedStatus) {
	assignedStr := "no"
	if s.Assigned {
		assignedStr = "yes"
	}
	fmt.Printf("Student: %s\n", s.StudentID)
	fmt.Printf("Assigned: %s\n", assignedStr)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
