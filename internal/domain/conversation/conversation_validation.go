package conversation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tahien663-cpu/chat-api/internal/utils/idgen"
)

// ===============================================
// Turn Validation
// ===============================================

// TurnValidationConfig holds validation rules for inbound turns.
type TurnValidationConfig struct {
	MaxPromptRunes int
	MaxMessages    int
}

// DefaultTurnValidationConfig returns the production validation rules.
func DefaultTurnValidationConfig() *TurnValidationConfig {
	return &TurnValidationConfig{
		MaxPromptRunes: 500,
		MaxMessages:    500,
	}
}

// TurnValidator guards the pipeline's entry points. Everything it rejects
// fails before any side effect occurs.
type TurnValidator struct {
	config *TurnValidationConfig
}

func NewTurnValidator(config *TurnValidationConfig) *TurnValidator {
	if config == nil {
		config = DefaultTurnValidationConfig()
	}
	return &TurnValidator{config: config}
}

// ValidateConversationID checks the opaque-identifier format. It is a pure
// syntax check and never reaches the store.
func (v *TurnValidator) ValidateConversationID(id string) error {
	if id == "" {
		return fmt.Errorf("conversation ID cannot be empty")
	}
	if !strings.HasPrefix(id, PublicIDPrefix+"_") {
		return fmt.Errorf("conversation ID must start with '%s_' prefix", PublicIDPrefix)
	}
	if !idgen.ValidateIDFormat(id, PublicIDPrefix) {
		return fmt.Errorf("invalid conversation ID format")
	}
	return nil
}

// ValidateTurnMessages checks the inbound message list of a chat turn.
func (v *TurnValidator) ValidateTurnMessages(messages []TurnMessage) error {
	if len(messages) == 0 {
		return fmt.Errorf("messages cannot be empty")
	}
	if len(messages) > v.config.MaxMessages {
		return fmt.Errorf("messages cannot exceed %d entries (got %d)", v.config.MaxMessages, len(messages))
	}
	for i, msg := range messages {
		if !ValidateRole(string(msg.Role)) {
			return fmt.Errorf("message %d has invalid role: %s (must be user or ai)", i, msg.Role)
		}
		if strings.Contains(msg.Content, "\x00") {
			return fmt.Errorf("message %d content cannot contain null bytes", i)
		}
	}
	return nil
}

// ValidateImagePrompt checks the caller-supplied prompt of an image turn.
func (v *TurnValidator) ValidateImagePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("prompt cannot be empty")
	}
	if length := utf8.RuneCountInString(prompt); length > v.config.MaxPromptRunes {
		return fmt.Errorf("prompt cannot exceed %d characters (got %d)", v.config.MaxPromptRunes, length)
	}
	if strings.Contains(prompt, "\x00") {
		return fmt.Errorf("prompt cannot contain null bytes")
	}
	return nil
}
