package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/projalloc/projalloc/internal/model"
	"github.com/projalloc/projalloc/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// Pipeline keeps the record and the listing index in step
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	pipe.SAdd(ctx, usersIndexKey(), string(user.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	ids, err := s.client.SMembers(ctx, usersIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.GetUser(ctx, model.UserID(id))
		if err != nil {
			if errors.Is(err, model.ErrUserNotFound) {
				continue // Record removed after index read
			}
			return nil, err
		}
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, accountKey(account.UserID), data, 0)
	pipe.Set(ctx, usernameIndexKey(account.Username), string(account.UserID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAccount(ctx context.Context, userID model.UserID) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	userIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetAccount(ctx, model.UserID(userIDStr))
}

// Project operations

func (s *Storage) SaveProject(ctx context.Context, project *model.Project) error {
	data, err := json.Marshal(project)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, projectKey(project.ID), data, 0)
	pipe.SAdd(ctx, projectsIndexKey(), string(project.ID))
	pipe.SAdd(ctx, projectsByOwnerIndexKey(project.OwnerID), string(project.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetProject(ctx context.Context, id model.ProjectID) (*model.Project, error) {
	data, err := s.client.Get(ctx, projectKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProjectNotFound
		}
		return nil, err
	}

	var project model.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *Storage) ListProjects(ctx context.Context) ([]*model.Project, error) {
	return s.projectsFromIndex(ctx, projectsIndexKey())
}

func (s *Storage) ListProjectsByOwner(ctx context.Context, ownerID model.UserID) ([]*model.Project, error) {
	return s.projectsFromIndex(ctx, projectsByOwnerIndexKey(ownerID))
}

func (s *Storage) projectsFromIndex(ctx context.Context, indexKey string) ([]*model.Project, error) {
	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = projectKey(model.ProjectID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	projects := make([]*model.Project, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Record removed after index read
		}
		var project model.Project
		if err := json.Unmarshal([]byte(val.(string)), &project); err != nil {
			continue // Skip invalid data
		}
		projects = append(projects, &project)
	}
	sortProjects(projects)
	return projects, nil
}

// Registration operations

func (s *Storage) SaveRegistration(ctx context.Context, reg *model.Registration) error {
	data, err := json.Marshal(reg)
	if err != nil {
		return err
	}

	// Pipeline keeps the record and its three indexes in step
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, registrationKey(reg.ID), data, 0)
	pipe.Set(ctx, pairIndexKey(reg.ProjectID, reg.StudentID), string(reg.ID), 0)
	pipe.SAdd(ctx, registrationsByStudentIndexKey(reg.StudentID), string(reg.ID))
	pipe.SAdd(ctx, registrationsByProjectIndexKey(reg.ProjectID), string(reg.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegistration(ctx context.Context, id model.RegistrationID) (*model.Registration, error) {
	data, err := s.client.Get(ctx, registrationKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRegistrationNotFound
		}
		return nil, err
	}

	var reg model.Registration
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (s *Storage) GetRegistrationByPair(ctx context.Context, projectID model.ProjectID, studentID model.UserID) (*model.Registration, error) {
	idStr, err := s.client.Get(ctx, pairIndexKey(projectID, studentID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRegistrationNotFound
		}
		return nil, err
	}

	return s.GetRegistration(ctx, model.RegistrationID(idStr))
}

func (s *Storage) ListRegistrationsByStudent(ctx context.Context, studentID model.UserID) ([]*model.Registration, error) {
	return s.registrationsFromIndex(ctx, registrationsByStudentIndexKey(studentID))
}

func (s *Storage) ListRegistrationsByProject(ctx context.Context, projectID model.ProjectID) ([]*model.Registration, error) {
	return s.registrationsFromIndex(ctx, registrationsByProjectIndexKey(projectID))
}

func (s *Storage) registrationsFromIndex(ctx context.Context, indexKey string) ([]*model.Registration, error) {
	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = registrationKey(model.RegistrationID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	regs := make([]*model.Registration, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Record removed after index read
		}
		var reg model.Registration
		if err := json.Unmarshal([]byte(val.(string)), &reg); err != nil {
			continue // Skip invalid data
		}
		regs = append(regs, &reg)
	}
	sortRegistrations(regs)
	return regs, nil
}

// ApplyAssignment writes the promoted registration and the closed
// project in one transaction so readers never observe an assigned
// registration against a still-open project.
func (s *Storage) ApplyAssignment(ctx context.Context, reg *model.Registration, project *model.Project) error {
	regData, err := json.Marshal(reg)
	if err != nil {
		return err
	}
	projectData, err := json.Marshal(project)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, projectKey(project.ID), projectData, 0)
	pipe.Set(ctx, registrationKey(reg.ID), regData, 0)
	_, err = pipe.Exec(ctx)
	return err
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
