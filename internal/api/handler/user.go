package handler

import (
	"encoding/json"
	"net/http"

	"github.com/projalloc/projalloc/internal/api/middleware"
	"github.com/projalloc/projalloc/internal/api/request"
	"github.com/projalloc/projalloc/internal/api/response"
	"github.com/projalloc/projalloc/internal/model"
	"github.com/projalloc/projalloc/internal/services/identity"
)

// UserHandler handles account and session endpoints
type UserHandler struct {
	identityService *identity.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(identityService *identity.Service) *UserHandler {
	return &UserHandler{
		identityService: identityService,
	}
}

// SignUp handles POST /api/v1/users/signup
func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req request.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	session, err := h.identityService.SignUp(r.Context(), req.Username, req.Password, req.Name, model.Role(req.Role))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Login handles POST /api/v1/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.identityService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// Logout handles POST /api/v1/users/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session != nil {
		h.identityService.InvalidateSession(session.Token)
	}
	response.NoContent(w)
}

// GetMe handles GET /api/v1/users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// ChangePassword handles PUT /api/v1/users/me/password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.NewPassword == "" {
		WriteError(w, NewInvalidRequestError("new_password is required"))
		return
	}

	if err := h.identityService.ChangePassword(r.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
