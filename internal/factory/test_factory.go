package factory

import (
	"time"

	"github.com/projalloc/projalloc/internal/dependencies/mocks"
	"github.com/projalloc/projalloc/internal/services/identity"
	"github.com/projalloc/projalloc/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))

	app := newWithDependencies(store, mockClock, identity.DefaultConfig())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}
