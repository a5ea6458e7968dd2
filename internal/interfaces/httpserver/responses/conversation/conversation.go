// Package conversationresponses carries the wire shapes of the conversation
// resource endpoints.
package conversationresponses

import (
	"time"

	"github.com/tahien663-cpu/chat-api/internal/domain/conversation"
)

// ConversationResponse is one conversation as returned to clients.
type ConversationResponse struct {
	ID          string    `json:"id"`
	Object      string    `json:"object"`
	Title       string    `json:"title"`
	LastMessage string    `json:"last_message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ConversationListResponse is a cursor-paginated page of conversations.
type ConversationListResponse struct {
	Object  string                 `json:"object"`
	Data    []ConversationResponse `json:"data"`
	FirstID string                 `json:"first_id"`
	LastID  string                 `json:"last_id"`
	HasMore bool                   `json:"has_more"`
	Total   int64                  `json:"total"`
}

// ConversationDeletedResponse confirms a delete.
type ConversationDeletedResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// MessageResponse is one persisted message as returned to clients. Metadata
// is only present on image turns.
type MessageResponse struct {
	ID        string                        `json:"id"`
	Object    string                        `json:"object"`
	Role      string                        `json:"role"`
	Content   string                        `json:"content"`
	Metadata  *conversation.MessageMetadata `json:"metadata,omitempty"`
	CreatedAt time.Time                     `json:"created_at"`
}

// MessageListResponse is a cursor-paginated page of messages within one
// conversation.
type MessageListResponse struct {
	Object         string            `json:"object"`
	ConversationID string            `json:"conversation_id"`
	Data           []MessageResponse `json:"data"`
	FirstID        string            `json:"first_id"`
	LastID         string            `json:"last_id"`
	HasMore        bool              `json:"has_more"`
}

// NewConversationResponse maps a domain conversation to its wire shape.
func NewConversationResponse(conv *conversation.Conversation) *ConversationResponse {
	return &ConversationResponse{
		ID:          conv.PublicID,
		Object:      "conversation",
		Title:       conv.Title,
		LastMessage: conv.LastMessage,
		CreatedAt:   conv.CreatedAt,
		UpdatedAt:   conv.UpdatedAt,
	}
}

// NewConversationListResponse assembles a page. hasMore reflects whether
// rows beyond this page exist; total counts all of the caller's
// conversations regardless of pagination.
func NewConversationListResponse(conversations []*conversation.Conversation, hasMore bool, total int64) *ConversationListResponse {
	data := make([]ConversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		if conv == nil {
			continue
		}
		data = append(data, *NewConversationResponse(conv))
	}

	firstID := ""
	lastID := ""
	if len(data) > 0 {
		firstID = data[0].ID
		lastID = data[len(data)-1].ID
	}

	return &ConversationListResponse{
		Object:  "list",
		Data:    data,
		FirstID: firstID,
		LastID:  lastID,
		HasMore: hasMore,
		Total:   total,
	}
}

// NewConversationDeletedResponse confirms deletion of the given public ID.
func NewConversationDeletedResponse(publicID string) *ConversationDeletedResponse {
	return &ConversationDeletedResponse{
		ID:      publicID,
		Object:  "conversation.deleted",
		Deleted: true,
	}
}

// NewMessageResponse maps a domain message to its wire shape.
func NewMessageResponse(message *conversation.Message) *MessageResponse {
	return &MessageResponse{
		ID:        message.PublicID,
		Object:    "message",
		Role:      string(message.Role),
		Content:   message.Content,
		Metadata:  message.Metadata,
		CreatedAt: message.CreatedAt,
	}
}

// NewMessageListResponse assembles a page of one conversation's messages.
func NewMessageListResponse(conversationPublicID string, messages []*conversation.Message, hasMore bool) *MessageListResponse {
	data := make([]MessageResponse, 0, len(messages))
	for _, message := range messages {
		if message == nil {
			continue
		}
		data = append(data, *NewMessageResponse(message))
	}

	firstID := ""
	lastID := ""
	if len(data) > 0 {
		firstID = data[0].ID
		lastID = data[len(data)-1].ID
	}

	return &MessageListResponse{
		Object:         "list",
		ConversationID: conversationPublicID,
		Data:           data,
		FirstID:        firstID,
		LastID:         lastID,
		HasMore:        hasMore,
	}
}
