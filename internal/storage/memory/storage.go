package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/projalloc/projalloc/internal/model"
	"github.com/projalloc/projalloc/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users         map[model.UserID]*model.User
	accounts      map[model.UserID]*model.Account
	usernameIndex map[string]model.UserID
	projects      map[model.ProjectID]*model.Project
	registrations map[model.RegistrationID]*model.Registration
	pairIndex     map[pairKey]model.RegistrationID
}

type pairKey struct {
	projectID model.ProjectID
	studentID model.UserID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:         make(map[model.UserID]*model.User),
		accounts:      make(map[model.UserID]*model.Account),
		usernameIndex: make(map[string]model.UserID),
		projects:      make(map[model.ProjectID]*model.Project),
		registrations: make(map[model.RegistrationID]*model.Registration),
		pairIndex:     make(map[pairKey]model.RegistrationID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.users[user.ID] = &u
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*model.User, 0, len(s.users))
	for _, user := range s.users {
		u := *user
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := *account
	s.accounts[account.UserID] = &a
	s.usernameIndex[account.Username] = account.UserID
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, userID model.UserID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[userID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	a := *account
	return &a, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	account, ok := s.accounts[userID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	a := *account
	return &a, nil
}

// Project operations

func (s *Storage) SaveProject(ctx context.Context, project *model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *project
	s.projects[project.ID] = &p
	return nil
}

func (s *Storage) GetProject(ctx context.Context, id model.ProjectID) (*model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	project, ok := s.projects[id]
	if !ok {
		return nil, model.ErrProjectNotFound
	}
	p := *project
	return &p, nil
}

func (s *Storage) ListProjects(ctx context.Context) ([]*model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	projects := make([]*model.Project, 0, len(s.projects))
	for _, project := range s.projects {
		p := *project
		projects = append(projects, &p)
	}
	sortProjects(projects)
	return projects, nil
}

func (s *Storage) ListProjectsByOwner(ctx context.Context, ownerID model.UserID) ([]*model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var projects []*model.Project
	for _, project := range s.projects {
		if project.OwnerID == ownerID {
			p := *project
			projects = append(projects, &p)
		}
	}
	sortProjects(projects)
	return projects, nil
}

// Registration operations

func (s *Storage) SaveRegistration(ctx context.Context, reg *model.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *reg
	s.registrations[reg.ID] = &r
	s.pairIndex[pairKey{projectID: reg.ProjectID, studentID: reg.StudentID}] = reg.ID
	return nil
}

func (s *Storage) GetRegistration(ctx context.Context, id model.RegistrationID) (*model.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.registrations[id]
	if !ok {
		return nil, model.ErrRegistrationNotFound
	}
	r := *reg
	return &r, nil
}

func (s *Storage) GetRegistrationByPair(ctx context.Context, projectID model.ProjectID, studentID model.UserID) (*model.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.pairIndex[pairKey{projectID: projectID, studentID: studentID}]
	if !ok {
		return nil, model.ErrRegistrationNotFound
	}
	reg, ok := s.registrations[id]
	if !ok {
		return nil, model.ErrRegistrationNotFound
	}
	r := *reg
	return &r, nil
}

func (s *Storage) ListRegistrationsByStudent(ctx context.Context, studentID model.UserID) ([]*model.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var regs []*model.Registration
	for _, reg := range s.registrations {
		if reg.StudentID == studentID {
			r := *reg
			regs = append(regs, &r)
		}
	}
	sortRegistrations(regs)
	return regs, nil
}

func (s *Storage) ListRegistrationsByProject(ctx context.Context, projectID model.ProjectID) ([]*model.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var regs []*model.Registration
	for _, reg := range s.registrations {
		if reg.ProjectID == projectID {
			r := *reg
			regs = append(regs, &r)
		}
	}
	sortRegistrations(regs)
	return regs, nil
}

// ApplyAssignment writes the registration and project under one lock
// scope so no reader sees the assignment half-applied.
func (s *Storage) ApplyAssignment(ctx context.Context, reg *model.Registration, project *model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *reg
	p := *project
	s.registrations[reg.ID] = &r
	s.pairIndex[pairKey{projectID: reg.ProjectID, studentID: reg.StudentID}] = reg.ID
	s.projects[project.ID] = &p
	return nil
}

func sortProjects(projects []*model.Project) {
	sort.Slice(projects, func(i, j int) bool {
		if projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].ID < projects[j].ID
		}
		return projects[i].CreatedAt.Before(projects[j].CreatedAt)
	})
}

func sortRegistrations(regs []*model.Registration) {
	sort.Slice(regs, func(i, j int) bool {
		if regs[i].CreatedAt.Equal(regs[j].CreatedAt) {
			return regs[i].ID < regs[j].ID
		}
		return regs[i].CreatedAt.Before(regs[j].CreatedAt)
	})
}
