// Package user provides user domain models and behaviors.
package user

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tahien663-cpu/chat-api/internal/utils/idgen"
)

// PublicIDPrefix is the opaque identifier prefix for users.
const PublicIDPrefix = "user"

// User models an application user resolved from an external identity
// provider. Credentials never live here; the identity provider owns them.
type User struct {
	ID           uint
	PublicID     string
	AuthProvider string
	Issuer       string
	Subject      string
	Username     *string
	Email        *string
	Name         *string
	Picture      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity encapsulates the externally provided identity attributes.
type Identity struct {
	Provider string
	Issuer   string
	Subject  string
	Username *string
	Email    *string
	Name     *string
	Picture  *string
}

// Repository defines storage operations for users.
type Repository interface {
	FindByIssuerAndSubject(ctx context.Context, issuer, subject string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	Upsert(ctx context.Context, user *User) (*User, error)
}

// ErrInvalidIdentity indicates missing issuer or subject on the identity payload.
var ErrInvalidIdentity = errors.New("invalid identity: issuer and subject are required")

// ErrInvalidDisplayName indicates a blank or oversized display name.
var ErrInvalidDisplayName = errors.New("invalid display name")

// ErrUserNotFound indicates the referenced user row does not exist.
var ErrUserNotFound = errors.New("user not found")

const maxDisplayNameRunes = 128

// Service persists and resolves users from external identities.
type Service struct {
	repo Repository
}

// NewService constructs a Service with required dependencies.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EnsureUser persists the given identity and returns the internal user
// record. The public ID is generated here but survives upsert conflicts, so
// a re-authenticating user keeps the ID minted on first contact.
func (s *Service) EnsureUser(ctx context.Context, identity Identity) (*User, error) {
	if identity.Issuer == "" || identity.Subject == "" {
		return nil, ErrInvalidIdentity
	}

	authProvider := identity.Provider
	if authProvider == "" {
		authProvider = "gotrue"
	}

	publicID, err := idgen.GenerateSecureID(PublicIDPrefix, 16)
	if err != nil {
		return nil, err
	}

	// Emails are stored lowercased so the per-issuer uniqueness check is
	// case insensitive.
	email := identity.Email
	if email != nil {
		lowered := strings.ToLower(strings.TrimSpace(*email))
		email = &lowered
	}

	user := &User{
		PublicID:     publicID,
		AuthProvider: authProvider,
		Issuer:       identity.Issuer,
		Subject:      identity.Subject,
		Username:     identity.Username,
		Email:        email,
		Name:         identity.Name,
		Picture:      identity.Picture,
	}

	return s.repo.Upsert(ctx, user)
}

// GetByID returns the user row or ErrUserNotFound.
func (s *Service) GetByID(ctx context.Context, id uint) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateDisplayName changes the only locally mutable profile attribute.
func (s *Service) UpdateDisplayName(ctx context.Context, id uint, name string) (*User, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxDisplayNameRunes {
		return nil, ErrInvalidDisplayName
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = &trimmed
	return s.repo.Upsert(ctx, user)
}
