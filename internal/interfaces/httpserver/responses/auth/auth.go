// Package authresponses carries the wire shapes of the auth endpoints.
package authresponses

import (
	"time"

	"github.com/tahien663-cpu/chat-api/internal/domain/user"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/gotrue"
	"github.com/tahien663-cpu/chat-api/internal/utils/ptr"
)

// UserResponse is the local profile shared by the auth endpoints. ID is the
// opaque public identifier, never the provider subject.
type UserResponse struct {
	ID        string    `json:"id"`
	Object    string    `json:"object"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name,omitempty"`
	Picture   string    `json:"picture,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionResponse proxies the identity provider's token set. User is the
// local profile provisioned for the session's subject.
type SessionResponse struct {
	AccessToken  string        `json:"access_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int           `json:"expires_in"`
	ExpiresAt    int64         `json:"expires_at,omitempty"`
	RefreshToken string        `json:"refresh_token,omitempty"`
	User         *UserResponse `json:"user,omitempty"`
}

// RegisterResponse is returned by POST /auth/register. Session is absent
// when the provider withholds tokens pending email confirmation.
type RegisterResponse struct {
	User                 *UserResponse    `json:"user,omitempty"`
	Session              *SessionResponse `json:"session,omitempty"`
	RequiresConfirmation bool             `json:"requires_confirmation"`
}

// LogoutResponse confirms session revocation.
type LogoutResponse struct {
	Success bool `json:"success"`
}

// NewUserResponse maps a local user to its wire shape.
func NewUserResponse(u *user.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.PublicID,
		Object:    "user",
		Email:     ptr.StringOr(u.Email, ""),
		Name:      ptr.StringOr(u.Name, ""),
		Picture:   ptr.StringOr(u.Picture, ""),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewSessionResponse pairs a provider session with the local profile.
func NewSessionResponse(session *gotrue.Session, u *user.User) *SessionResponse {
	if session == nil {
		return nil
	}
	return &SessionResponse{
		AccessToken:  session.AccessToken,
		TokenType:    session.TokenType,
		ExpiresIn:    session.ExpiresIn,
		ExpiresAt:    session.ExpiresAt,
		RefreshToken: session.RefreshToken,
		User:         NewUserResponse(u),
	}
}
