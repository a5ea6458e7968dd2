// Package chatresponses carries the wire shape of a completed chat turn.
package chatresponses

import (
	"time"

	"github.com/tahien663-cpu/chat-api/internal/domain/conversation"
)

// TurnResponse is the body returned by POST /v1/chat. Timestamp is the
// creation time of the persisted assistant message.
type TurnResponse struct {
	Reply          string    `json:"reply"`
	MessageID      string    `json:"messageId"`
	ConversationID string    `json:"conversationId"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewTurnResponse builds the turn response from the persisted assistant
// message and its conversation.
func NewTurnResponse(reply string, message *conversation.Message, conv *conversation.Conversation) *TurnResponse {
	return &TurnResponse{
		Reply:          reply,
		MessageID:      message.PublicID,
		ConversationID: conv.PublicID,
		Timestamp:      message.CreatedAt,
	}
}
