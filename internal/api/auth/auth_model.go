package auth

import "github.com/rfcorreia/go-identity-service/internal/types"

// RegisterRequest represents the register request body. Role is
// accepted on the wire for compatibility with existing clients but is
// not honored: every registration gets role "user".
type RegisterRequest struct {
	FullName  string `json:"fullName"`
	BirthDate string `json:"birthDate"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse represents the register response body.
type RegisterResponse struct {
	Message string           `json:"message"`
	User    types.PublicUser `json:"user"`
}

// LoginResponse represents the login response body.
type LoginResponse struct {
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    types.PublicUser `json:"user"`
}
