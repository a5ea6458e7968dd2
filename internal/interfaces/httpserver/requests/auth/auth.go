// Package authrequests carries the wire shapes of the auth endpoints.
package authrequests

// RegisterRequest is the body of POST /auth/register. Name is optional and
// travels to the identity provider as user metadata.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name,omitempty"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// UpdateMeRequest is the body of PATCH /v1/auth/me.
type UpdateMeRequest struct {
	Name string `json:"name" binding:"required"`
}
