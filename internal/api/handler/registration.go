package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/projalloc/projalloc/internal/api/middleware"
	"github.com/projalloc/projalloc/internal/api/request"
	"github.com/projalloc/projalloc/internal/api/response"
	"github.com/projalloc/projalloc/internal/model"
	"github.com/projalloc/projalloc/internal/services/assignment"
	"github.com/projalloc/projalloc/internal/services/ledger"
)

// RegistrationHandler handles registration ledger and assignment
// endpoints
type RegistrationHandler struct {
	ledgerController     *ledger.Controller
	assignmentController *assignment.Controller
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(ledgerController *ledger.Controller, assignmentController *assignment.Controller) *RegistrationHandler {
	return &RegistrationHandler{
		ledgerController:     ledgerController,
		assignmentController: assignmentController,
	}
}

// Create handles POST /api/v1/registrations
func (h *RegistrationHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.RegisterInterestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.ProjectID == "" {
		WriteError(w, NewInvalidRequestError("project_id is required"))
		return
	}

	reg, err := h.ledgerController.RegisterInterest(r.Context(), model.ProjectID(req.ProjectID), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RegistrationFromModel(reg))
}

// Batch handles POST /api/v1/registrations/batch
func (h *RegistrationHandler) Batch(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.BatchRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if len(req.ProjectIDs) == 0 {
		WriteError(w, NewInvalidRequestError("project_ids is required"))
		return
	}

	projectIDs := make([]model.ProjectID, len(req.ProjectIDs))
	for i, id := range req.ProjectIDs {
		projectIDs[i] = model.ProjectID(id)
	}

	report, err := h.ledgerController.BatchRegister(r.Context(), projectIDs, user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.BatchReportFromModel(report))
}

// ListMine handles GET /api/v1/registrations/student
func (h *RegistrationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	views, err := h.ledgerController.ListForStudent(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RegistrationViewListFromModel(views))
}

// ListOwned handles GET /api/v1/registrations/owned
func (h *RegistrationHandler) ListOwned(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	views, err := h.ledgerController.ListForOwner(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RegistrationViewListFromModel(views))
}

// AssignedStatus handles GET /api/v1/students/{id}/assigned
func (h *RegistrationHandler) AssignedStatus(w http.ResponseWriter, r *http.Request) {
	studentID := model.UserID(mux.Vars(r)["id"])

	assigned, err := h.ledgerController.IsStudentAssigned(r.Context(), studentID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AssignedStatus{
		StudentID: string(studentID),
		Assigned:  assigned,
	})
}

// Assign handles POST /api/v1/registrations/{id}/assign
func (h *RegistrationHandler) Assign(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.RegistrationID(mux.Vars(r)["id"])

	result, err := h.assignmentController.Assign(r.Context(), id, user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AssignmentResultFromModel(result))
}
