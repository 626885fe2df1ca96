package factory

import (
	"errors"
	"sync"

	"github.com/projalloc/projalloc/internal/dependencies/clock"
	"github.com/projalloc/projalloc/internal/services/assignment"
	"github.com/projalloc/projalloc/internal/services/catalog"
	"github.com/projalloc/projalloc/internal/services/identity"
	"github.com/projalloc/projalloc/internal/services/ledger"
	"github.com/projalloc/projalloc/internal/storage"
	"github.com/projalloc/projalloc/internal/storage/memory"
	redisstorage "github.com/projalloc/projalloc/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	IdentityService      *identity.Service
	CatalogController    *catalog.Controller
	LedgerController     *ledger.Controller
	AssignmentController *assignment.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// IdentityConfig holds configuration for the identity service (optional)
	// If zero value, defaults to identity.DefaultConfig()
	IdentityConfig identity.Config
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()

	// Use default identity config if not provided
	identityCfg := cfg.IdentityConfig
	if identityCfg.SessionDuration == 0 {
		identityCfg = identity.DefaultConfig()
	}

	return newWithDependencies(store, clk, identityCfg), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, identityCfg identity.Config) *App {
	// All allocation state transitions serialise on a single mutex shared
	// by the catalog, ledger and assignment controllers. Check-then-write
	// sequences across project and registration records stay atomic with
	// respect to each other.
	alloc := &sync.Mutex{}

	identityService := identity.New(store, clk, identityCfg)
	catalogController := catalog.NewController(store, clk, alloc)
	ledgerController := ledger.NewController(store, clk, alloc)
	assignmentController := assignment.NewController(store, clk, alloc)

	return &App{
		Storage:              store,
		Clock:                clk,
		IdentityService:      identityService,
		CatalogController:    catalogController,
		LedgerController:     ledgerController,
		AssignmentController: assignmentController,
	}
}
