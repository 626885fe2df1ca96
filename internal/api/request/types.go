package request

// SignUpRequest is the request body for creating an account
type SignUpRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the request body for changing a password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// CreateProjectRequest is the request body for creating a project
type CreateProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// RegisterInterestRequest is the request body for registering interest
// in a project
type RegisterInterestRequest struct {
	ProjectID string `json:"project_id"`
}

// BatchRegisterRequest is the request body for registering interest in
// several projects at once
type BatchRegisterRequest struct {
	ProjectIDs []string `json:"project_ids"`
}
