// Package imageresponses carries the wire shape of a completed image turn.
package imageresponses

import (
	"time"

	"github.com/tahien663-cpu/chat-api/internal/domain/conversation"
)

// ImageTurnResponse is the body returned by POST /v1/images. Reply mirrors
// the persisted assistant message content; EnhancedPrompt is the decorated
// prompt embedded in the render URL, OriginalPrompt the user's verbatim one.
type ImageTurnResponse struct {
	Reply          string    `json:"reply"`
	ImageURL       string    `json:"imageUrl"`
	EnhancedPrompt string    `json:"enhancedPrompt"`
	OriginalPrompt string    `json:"originalPrompt"`
	MessageID      string    `json:"messageId"`
	ConversationID string    `json:"conversationId"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewImageTurnResponse builds the image turn response from the persisted
// assistant message, its metadata, and the owning conversation.
func NewImageTurnResponse(message *conversation.Message, conv *conversation.Conversation) *ImageTurnResponse {
	resp := &ImageTurnResponse{
		Reply:          message.Content,
		MessageID:      message.PublicID,
		ConversationID: conv.PublicID,
		Timestamp:      message.CreatedAt,
	}
	if message.Metadata != nil {
		resp.ImageURL = message.Metadata.ImageURL
		resp.EnhancedPrompt = message.Metadata.EnhancedPrompt
		resp.OriginalPrompt = message.Metadata.OriginalPrompt
	}
	return resp
}
