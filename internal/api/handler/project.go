package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/projalloc/projalloc/internal/api/middleware"
	"github.com/projalloc/projalloc/internal/api/request"
	"github.com/projalloc/projalloc/internal/api/response"
	"github.com/projalloc/projalloc/internal/model"
	"github.com/projalloc/projalloc/internal/services/catalog"
)

// ProjectHandler handles project catalog endpoints
type ProjectHandler struct {
	catalogController *catalog.Controller
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(catalogController *catalog.Controller) *ProjectHandler {
	return &ProjectHandler{
		catalogController: catalogController,
	}
}

// Create handles POST /api/v1/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	project, err := h.catalogController.CreateProject(r.Context(), user.ID, req.Title, req.Description)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ProjectFromModel(project))
}

// List handles GET /api/v1/projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.catalogController.ListProjects(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProjectListFromModel(projects))
}

// ListOwned handles GET /api/v1/projects/owned
func (h *ProjectHandler) ListOwned(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	projects, err := h.catalogController.ListProjectsByOwner(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProjectListFromModel(projects))
}

// Get handles GET /api/v1/projects/{id}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.ProjectID(mux.Vars(r)["id"])

	project, err := h.catalogController.GetProject(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProjectFromModel(project))
}

// Retire handles POST /api/v1/projects/{id}/retire
func (h *ProjectHandler) Retire(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.ProjectID(mux.Vars(r)["id"])

	project, err := h.catalogController.RetireProject(r.Context(), id, user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProjectFromModel(project))
}
