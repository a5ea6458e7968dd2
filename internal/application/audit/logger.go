// Package audit persists a best-effort trail of account-facing actions.
package audit

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Audit actions recorded by the auth handlers.
const (
	ActionRegister      = "auth.register"
	ActionLogin         = "auth.login"
	ActionRefresh       = "auth.refresh"
	ActionLogout        = "auth.logout"
	ActionProfileUpdate = "auth.profile_update"
)

// AuthAuditLogger records account actions to the audit_logs table.
// Writes are best effort; a failed insert logs a warning and nothing
// else.
type AuthAuditLogger struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewAuthAuditLogger(db *gorm.DB, logger zerolog.Logger) *AuthAuditLogger {
	return &AuthAuditLogger{db: db, logger: logger}
}

type Entry struct {
	UserID     string
	Email      string
	Action     string
	Resource   string
	ResourceID string
	Payload    any
	StatusCode int
	IPAddress  string
	UserAgent  string
	Error      error
}

// Log persists the entry. Safe to call on a nil logger.
func (l *AuthAuditLogger) Log(ctx context.Context, entry Entry) {
	if l == nil || l.db == nil {
		return
	}

	var payloadJSON []byte
	if entry.Payload != nil {
		if b, err := json.Marshal(entry.Payload); err == nil {
			payloadJSON = b
		}
	}

	sql := `
INSERT INTO chat_api.audit_logs
    (user_id, email, action, resource_type, resource_id, payload, ip_address, user_agent, status_code, error_message)
VALUES
    (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	if err := l.db.WithContext(ctx).Exec(sql,
		entry.UserID,
		entry.Email,
		entry.Action,
		entry.Resource,
		entry.ResourceID,
		payloadJSON,
		entry.IPAddress,
		entry.UserAgent,
		entry.StatusCode,
		errorString(entry.Error),
	).Error; err != nil {
		l.logger.Warn().Err(err).Str("action", entry.Action).Msg("failed to write audit log")
	}
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
