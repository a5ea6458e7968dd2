package conversation

import (
	"context"
	"time"

	"github.com/tahien663-cpu/chat-api/internal/domain/query"
)

// ===============================================
// Message Types and Enums
// ===============================================

// Role is the internal role vocabulary stored with every message. It is
// deliberately distinct from the completion provider's vocabulary; the two
// are bridged only by ProviderRole.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Provider-side role labels. Only the assistant label diverges from the
// internal vocabulary today.
const (
	ProviderRoleUser      = "user"
	ProviderRoleAssistant = "assistant"
)

func ValidateRole(input string) bool {
	switch Role(input) {
	case RoleUser, RoleAI:
		return true
	default:
		return false
	}
}

// ProviderRole translates the internal role label to the completion
// provider's vocabulary. Labels with no divergence pass through unchanged.
func (r Role) ProviderRole() string {
	switch r {
	case RoleAI:
		return ProviderRoleAssistant
	case RoleUser:
		return ProviderRoleUser
	default:
		return string(r)
	}
}

// ===============================================
// Message Structure
// ===============================================

const MessagePublicIDPrefix = "msg"

// MessageMetadata carries image-turn annotations stored alongside the
// message row. Chat messages leave it nil.
type MessageMetadata struct {
	ImageURL       string `json:"image_url,omitempty"`
	EnhancedPrompt string `json:"enhanced_prompt,omitempty"`
	OriginalPrompt string `json:"original_prompt,omitempty"`
}

// Message is one side of a turn inside a conversation. Messages order by
// creation time within their conversation.
type Message struct {
	ID             uint             `json:"-"`
	PublicID       string           `json:"id"` // opaque string ID like "msg_x7y2z5w8r3t6u9v1"
	ConversationID uint             `json:"-"`
	Role           Role             `json:"role"`
	Content        string           `json:"content"`
	Metadata       *MessageMetadata `json:"metadata,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// NewMessage builds a message for the given conversation row. The caller
// supplies the generated public ID.
func NewMessage(publicID string, conversationID uint, role Role, content string, metadata *MessageMetadata) *Message {
	return &Message{
		PublicID:       publicID,
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Metadata:       metadata,
		CreatedAt:      time.Now().UTC(),
	}
}

// ===============================================
// Turn Input
// ===============================================

// TurnMessage is one element of the role-tagged message list a caller
// submits for a chat turn.
type TurnMessage struct {
	Role    Role
	Content string
}

// LastUserMessage returns the most recent message with role user, which is
// the one persisted for the turn.
func LastUserMessage(messages []TurnMessage) (TurnMessage, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i], true
		}
	}
	return TurnMessage{}, false
}

// ===============================================
// Message Repository
// ===============================================

type MessageFilter struct {
	ConversationID *uint
	PublicID       *string
	Role           *Role
}

type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	FindByFilter(ctx context.Context, filter MessageFilter, pagination *query.Pagination) ([]*Message, error)
	Count(ctx context.Context, filter MessageFilter) (int64, error)
	// FindByPublicID returns (nil, nil) when no row matches.
	FindByPublicID(ctx context.Context, publicID string) (*Message, error)
}
