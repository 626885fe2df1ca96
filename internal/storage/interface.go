package storage

import (
	"context"

	"github.com/projalloc/projalloc/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)

	// Account operations (login credentials, stored apart from the
	// identity record)
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, userID model.UserID) (*model.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)

	// Project operations
	SaveProject(ctx context.Context, project *model.Project) error
	GetProject(ctx context.Context, id model.ProjectID) (*model.Project, error)
	ListProjects(ctx context.Context) ([]*model.Project, error)
	ListProjectsByOwner(ctx context.Context, ownerID model.UserID) ([]*model.Project, error)

	// Registration operations
	SaveRegistration(ctx context.Context, reg *model.Registration) error
	GetRegistration(ctx context.Context, id model.RegistrationID) (*model.Registration, error)
	GetRegistrationByPair(ctx context.Context, projectID model.ProjectID, studentID model.UserID) (*model.Registration, error)
	ListRegistrationsByStudent(ctx context.Context, studentID model.UserID) ([]*model.Registration, error)
	ListRegistrationsByProject(ctx context.Context, projectID model.ProjectID) ([]*model.Registration, error)

	// ApplyAssignment persists a promoted registration together with
	// its closed project as one atomic write. Readers must never
	// observe one without the other.
	ApplyAssignment(ctx context.Context, reg *model.Registration, project *model.Project) error
}
