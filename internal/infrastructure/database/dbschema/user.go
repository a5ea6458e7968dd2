package dbschema

import (
	"github.com/tahien663-cpu/chat-api/internal/domain/user"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(User{})
}

// User is the persisted form of a user resolved from the identity provider.
// (issuer, subject) is the upsert key; public_id survives conflicts so the
// ID minted on first contact is permanent. Name doubles as the mutable
// display name. Email is varchar(320), the RFC 5321 address ceiling.
type User struct {
	BaseModel
	PublicID     string  `gorm:"type:varchar(50);not null;uniqueIndex:ux_users_public_id"`
	AuthProvider string  `gorm:"type:varchar(50);not null;default:'gotrue'"`
	Issuer       string  `gorm:"type:varchar(255);not null;uniqueIndex:ux_users_issuer_subject"`
	Subject      string  `gorm:"type:varchar(255);not null;uniqueIndex:ux_users_issuer_subject"`
	Username     *string `gorm:"type:varchar(150)"`
	Email        *string `gorm:"type:varchar(320)"`
	Name         *string `gorm:"type:varchar(255)"`
	Picture      *string `gorm:"type:varchar(512)"`
}

// NewSchemaUser converts a domain user for writes.
func NewSchemaUser(u *user.User) *User {
	if u == nil {
		return nil
	}

	schemaUser := &User{
		PublicID:     u.PublicID,
		AuthProvider: u.AuthProvider,
		Issuer:       u.Issuer,
		Subject:      u.Subject,
		Username:     u.Username,
		Email:        u.Email,
		Name:         u.Name,
		Picture:      u.Picture,
	}
	schemaUser.ID = u.ID
	schemaUser.CreatedAt = u.CreatedAt
	schemaUser.UpdatedAt = u.UpdatedAt
	return schemaUser
}

// EtoD converts a schema row back to the domain representation.
func (u *User) EtoD() *user.User {
	if u == nil {
		return nil
	}

	return &user.User{
		ID:           u.ID,
		PublicID:     u.PublicID,
		AuthProvider: u.AuthProvider,
		Issuer:       u.Issuer,
		Subject:      u.Subject,
		Username:     u.Username,
		Email:        u.Email,
		Name:         u.Name,
		Picture:      u.Picture,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
