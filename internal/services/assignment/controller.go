package assignment

import (
	"context"
	"sync"

	"github.com/projalloc/projalloc/internal/dependencies/clock"
	"github.com/projalloc/projalloc/internal/model"
	"github.com/projalloc/projalloc/internal/storage"
)

// Controller resolves assignments: it promotes exactly one interested
// registration per project to assigned while holding the exclusivity
// invariants against concurrent requests.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock

	// alloc serializes allocation-state mutations; shared with the
	// catalog and ledger controllers. Holding it across the whole
	// check-then-write sequence is what makes the exclusivity checks
	// sound under concurrency.
	alloc *sync.Mutex
}

// NewController creates a new assignment Controller
func NewController(storage storage.Storage, clock clock.Clock, alloc *sync.Mutex) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		alloc:   alloc,
	}
}

// Assign promotes an interested registration to assigned and closes
// its project. The requester must be the staff owner of the project.
// Competing interested registrations on the same project are left in
// place; closure of the project makes them permanently inert.
func (c *Controller) Assign(ctx context.Context, registrationID model.RegistrationID, requesterID model.UserID) (*model.AssignmentResult, error) {
	c.alloc.Lock()
	defer c.alloc.Unlock()

	reg, err := c.storage.GetRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	project, err := c.storage.GetProject(ctx, reg.ProjectID)
	if err != nil {
		return nil, err
	}

	if project.OwnerID != requesterID {
		return nil, model.ErrNotProjectOwner
	}

	if !project.Open() {
		return nil, model.ErrProjectClosed
	}

	if reg.Assigned() {
		return nil, model.ErrAlreadyAssigned
	}

	// One assignment per student system-wide. Checked under the same
	// lock as the write below, so two owners cannot both pass this
	// check for the same student.
	assigned, err := c.studentAssigned(ctx, reg.StudentID)
	if err != nil {
		return nil, err
	}
	if assigned {
		return nil, model.ErrStudentAlreadyAssigned
	}

	now := c.clock.Now()
	reg.State = model.RegistrationAssigned
	reg.UpdatedAt = now
	project.Availability = model.AvailabilityClosed
	project.UpdatedAt = now

	if err := c.storage.ApplyAssignment(ctx, reg, project); err != nil {
		return nil, err
	}

	return &model.AssignmentResult{
		Registration: *reg,
		Project:      *project,
	}, nil
}

func (c *Controller) studentAssigned(ctx context.Context, studentID model.UserID) (bool, error) {
	regs, err := c.storage.ListRegistrationsByStudent(ctx, studentID)
	if err != nil {
		return false, err
	}
	for _, r := range regs {
		if r.Assigned() {
			return true, nil
		}
	}
	return false, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	Assign(ctx context.Context, registrationID model.RegistrationID, requesterID model.UserID) (*model.AssignmentResult, error)
}

var _ ControllerInterface = (*Controller)(nil)
