package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/projalloc/projalloc/internal/dependencies/clock"
	"github.com/projalloc/projalloc/internal/model"
	"github.com/projalloc/projalloc/internal/storage"
)

// Controller manages the project catalog: creation, listing and
// retirement of projects.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock

	// alloc serializes every allocation-state mutation across the
	// catalog, ledger and assignment controllers. A single lock is
	// deliberate: allocation invariants span projects and students,
	// so per-entity locking would still need a global order.
	alloc *sync.Mutex
}

// NewController creates a new catalog Controller
func NewController(storage storage.Storage, clock clock.Clock, alloc *sync.Mutex) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		alloc:   alloc,
	}
}

// CreateProject creates an open project owned by the given staff member
func (c *Controller) CreateProject(ctx context.Context, ownerID model.UserID, title, description string) (*model.Project, error) {
	if title == "" {
		return nil, model.NewValidationError("title", "must not be empty")
	}
	if description == "" {
		return nil, model.NewValidationError("description", "must not be empty")
	}

	owner, err := c.storage.GetUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner.Role != model.RoleStaff {
		return nil, model.ErrNotStaff
	}

	now := c.clock.Now()
	project := &model.Project{
		ID:           model.ProjectID(uuid.NewString()),
		Title:        title,
		Description:  description,
		OwnerID:      ownerID,
		Availability: model.AvailabilityOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := c.storage.SaveProject(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// GetProject retrieves a project by id
func (c *Controller) GetProject(ctx context.Context, id model.ProjectID) (*model.Project, error) {
	return c.storage.GetProject(ctx, id)
}

// ListProjects returns all projects regardless of availability
func (c *Controller) ListProjects(ctx context.Context) ([]*model.Project, error) {
	return c.storage.ListProjects(ctx)
}

// ListProjectsByOwner returns the projects owned by a staff member
func (c *Controller) ListProjectsByOwner(ctx context.Context, staffID model.UserID) ([]*model.Project, error) {
	staff, err := c.storage.GetUser(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if staff.Role != model.RoleStaff {
		return nil, model.ErrNotStaff
	}

	return c.storage.ListProjectsByOwner(ctx, staffID)
}

// RetireProject closes a still-open project without assigning anyone.
// Interested registrations remain recorded but can no longer be
// assigned. Retiring a closed project, including one closed by an
// assignment, is a conflict.
func (c *Controller) RetireProject(ctx context.Context, projectID model.ProjectID, requesterID model.UserID) (*model.Project, error) {
	c.alloc.Lock()
	defer c.alloc.Unlock()

	project, err := c.storage.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if project.OwnerID != requesterID {
		return nil, model.ErrNotProjectOwner
	}

	if !project.Open() {
		return nil, model.ErrProjectClosed
	}

	project.Availability = model.AvailabilityClosed
	project.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveProject(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateProject(ctx context.Context, ownerID model.UserID, title, description string) (*model.Project, error)
	GetProject(ctx context.Context, id model.ProjectID) (*model.Project, error)
	ListProjects(ctx context.Context) ([]*model.Project, error)
	ListProjectsByOwner(ctx context.Context, staffID model.UserID) ([]*model.Project, error)
	RetireProject(ctx context.Context, projectID model.ProjectID, requesterID model.UserID) (*model.Project, error)
}

var _ ControllerInterface = (*Controller)(nil)
