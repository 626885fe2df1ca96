package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/projalloc/projalloc/internal/dependencies/clock"
	"github.com/projalloc/projalloc/internal/model"
	"github.com/projalloc/projalloc/internal/storage"
)

// Controller manages the registration ledger: recording student
// interest and answering the joined registration views.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock

	// alloc serializes allocation-state mutations; shared with the
	// catalog and assignment controllers.
	alloc *sync.Mutex
}

// NewController creates a new ledger Controller
func NewController(storage storage.Storage, clock clock.Clock, alloc *sync.Mutex) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		alloc:   alloc,
	}
}

// RegisterInterest records a student's interest in an open project.
// Registering twice for the same project returns the existing record
// unchanged rather than failing or duplicating it.
func (c *Controller) RegisterInterest(ctx context.Context, projectID model.ProjectID, studentID model.UserID) (*model.Registration, error) {
	c.alloc.Lock()
	defer c.alloc.Unlock()

	return c.registerInterestLocked(ctx, projectID, studentID)
}

// registerInterestLocked is RegisterInterest without lock acquisition;
// callers must hold c.alloc.
func (c *Controller) registerInterestLocked(ctx context.Context, projectID model.ProjectID, studentID model.UserID) (*model.Registration, error) {
	student, err := c.storage.GetUser(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.Role != model.RoleStudent {
		return nil, model.ErrNotStudent
	}

	project, err := c.storage.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	// Existing pair wins before any availability check: the caller
	// already holds this registration, whatever happened to the
	// project since.
	existing, err := c.storage.GetRegistrationByPair(ctx, projectID, studentID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, model.ErrRegistrationNotFound) {
		return nil, err
	}

	if !project.Open() {
		return nil, model.ErrProjectClosed
	}

	now := c.clock.Now()
	reg := &model.Registration{
		ID:        model.RegistrationID(uuid.NewString()),
		ProjectID: projectID,
		StudentID: studentID,
		State:     model.RegistrationInterested,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveRegistration(ctx, reg); err != nil {
		return nil, err
	}

	return reg, nil
}

// BatchRegister applies RegisterInterest to each project id
// independently and reports the per-project outcome. The batch itself
// never fails: rejected entries are recorded with their reason and
// the rest proceed.
func (c *Controller) BatchRegister(ctx context.Context, projectIDs []model.ProjectID, studentID model.UserID) (*model.BatchReport, error) {
	report := &model.BatchReport{
		Outcomes: make([]model.BatchOutcome, 0, len(projectIDs)),
	}

	for _, projectID := range projectIDs {
		reg, err := c.RegisterInterest(ctx, projectID, studentID)
		if err != nil {
			report.Rejected++
			report.Outcomes = append(report.Outcomes, model.BatchOutcome{
				ProjectID: projectID,
				Accepted:  false,
				Err:       err,
			})
			continue
		}

		report.Accepted++
		report.Outcomes = append(report.Outcomes, model.BatchOutcome{
			ProjectID:    projectID,
			Accepted:     true,
			Registration: reg,
		})
	}

	return report, nil
}

// ListForStudent returns the student's registrations joined with
// project and staff display data
func (c *Controller) ListForStudent(ctx context.Context, studentID model.UserID) ([]*model.RegistrationView, error) {
	student, err := c.storage.GetUser(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.Role != model.RoleStudent {
		return nil, model.ErrNotStudent
	}

	regs, err := c.storage.ListRegistrationsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return c.joinRegistrations(ctx, regs)
}

// ListForOwner returns every registration recorded against the staff
// member's projects, joined with display data
func (c *Controller) ListForOwner(ctx context.Context, staffID model.UserID) ([]*model.RegistrationView, error) {
	staff, err := c.storage.GetUser(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if staff.Role != model.RoleStaff {
		return nil, model.ErrNotStaff
	}

	projects, err := c.storage.ListProjectsByOwner(ctx, staffID)
	if err != nil {
		return nil, err
	}

	var views []*model.RegistrationView
	for _, project := range projects {
		regs, err := c.storage.ListRegistrationsByProject(ctx, project.ID)
		if err != nil {
			return nil, err
		}

		joined, err := c.joinRegistrations(ctx, regs)
		if err != nil {
			return nil, err
		}
		views = append(views, joined...)
	}

	return views, nil
}

// IsStudentAssigned reports whether any of the student's registrations
// is assigned
func (c *Controller) IsStudentAssigned(ctx context.Context, studentID model.UserID) (bool, error) {
	regs, err := c.storage.ListRegistrationsByStudent(ctx, studentID)
	if err != nil {
		return false, err
	}

	for _, reg := range regs {
		if reg.Assigned() {
			return true, nil
		}
	}
	return false, nil
}

// joinRegistrations resolves the display names callers need alongside
// each registration. The join is the engine's responsibility, not the
// client's.
func (c *Controller) joinRegistrations(ctx context.Context, regs []*model.Registration) ([]*model.RegistrationView, error) {
	views := make([]*model.RegistrationView, 0, len(regs))
	for _, reg := range regs {
		student, err := c.storage.GetUser(ctx, reg.StudentID)
		if err != nil {
			return nil, err
		}

		project, err := c.storage.GetProject(ctx, reg.ProjectID)
		if err != nil {
			return nil, err
		}

		staff, err := c.storage.GetUser(ctx, project.OwnerID)
		if err != nil {
			return nil, err
		}

		views = append(views, &model.RegistrationView{
			Registration: *reg,
			StudentName:  student.Name,
			ProjectTitle: project.Title,
			StaffName:    staff.Name,
		})
	}
	return views, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	RegisterInterest(ctx context.Context, projectID model.ProjectID, studentID model.UserID) (*model.Registration, error)
	BatchRegister(ctx context.Context, projectIDs []model.ProjectID, studentID model.UserID) (*model.BatchReport, error)
	ListForStudent(ctx context.Context, studentID model.UserID) ([]*model.RegistrationView, error)
	ListForOwner(ctx context.Context, staffID model.UserID) ([]*model.RegistrationView, error)
	IsStudentAssigned(ctx context.Context, studentID model.UserID) (bool, error)
}

var _ ControllerInterface = (*Controller)(nil)
