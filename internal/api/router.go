package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/projalloc/projalloc/internal/api/handler"
	"github.com/projalloc/projalloc/internal/api/middleware"
	"github.com/projalloc/projalloc/internal/services/assignment"
	"github.com/projalloc/projalloc/internal/services/catalog"
	"github.com/projalloc/projalloc/internal/services/identity"
	"github.com/projalloc/projalloc/internal/services/ledger"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger               *slog.Logger
	IdentityService      *identity.Service
	CatalogController    *catalog.Controller
	LedgerController     *ledger.Controller
	AssignmentController *assignment.Controller
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	userHandler := handler.NewUserHandler(cfg.IdentityService)
	projectHandler := handler.NewProjectHandler(cfg.CatalogController)
	registrationHandler := handler.NewRegistrationHandler(cfg.LedgerController, cfg.AssignmentController)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.IdentityService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// User routes (no auth required for signing up / logging in)
	api.HandleFunc("/users/signup", userHandler.SignUp).Methods(http.MethodPost)
	api.HandleFunc("/users/login", userHandler.Login).Methods(http.MethodPost)

	// Protected user routes
	userProtected := api.PathPrefix("/users").Subrouter()
	userProtected.Use(authMiddleware)
	userProtected.HandleFunc("/logout", userHandler.Logout).Methods(http.MethodPost)
	userProtected.HandleFunc("/me", userHandler.GetMe).Methods(http.MethodGet)
	userProtected.HandleFunc("/me/password", userHandler.ChangePassword).Methods(http.MethodPut)

	// Project routes (all require auth)
	projects := api.PathPrefix("/projects").Subrouter()
	projects.Use(authMiddleware)
	projects.HandleFunc("", projectHandler.Create).Methods(http.MethodPost)
	projects.HandleFunc("", projectHandler.List).Methods(http.MethodGet)
	projects.HandleFunc("/owned", projectHandler.ListOwned).Methods(http.MethodGet)
	projects.HandleFunc("/{id}", projectHandler.Get).Methods(http.MethodGet)
	projects.HandleFunc("/{id}/retire", projectHandler.Retire).Methods(http.MethodPost)

	// Registration routes (all require auth)
	registrations := api.PathPrefix("/registrations").Subrouter()
	registrations.Use(authMiddleware)
	registrations.HandleFunc("", registrationHandler.Create).Methods(http.MethodPost)
	registrations.HandleFunc("/batch", registrationHandler.Batch).Methods(http.MethodPost)
	registrations.HandleFunc("/student", registrationHandler.ListMine).Methods(http.MethodGet)
	registrations.HandleFunc("/owned", registrationHandler.ListOwned).Methods(http.MethodGet)
	registrations.HandleFunc("/{id}/assign", registrationHandler.Assign).Methods(http.MethodPost)

	// Assignment status lookup (requires auth)
	students := api.PathPrefix("/students").Subrouter()
	students.Use(authMiddleware)
	students.HandleFunc("/{id}/assigned", registrationHandler.AssignedStatus).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
