// Package chatrequests carries the wire shape of a chat turn.
package chatrequests

import (
	"github.com/tahien663-cpu/chat-api/internal/domain/conversation"
)

// TurnMessagePayload is one element of the role-tagged message list. Role
// uses the internal vocabulary ("user" or "ai"); translation to the
// completion provider's vocabulary happens later in the pipeline.
type TurnMessagePayload struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content"`
}

// TurnRequest is the body of POST /v1/chat. ConversationID is optional; a
// blank value starts a new conversation. Model is optional and must name an
// enabled catalog entry when set.
type TurnRequest struct {
	Messages       []TurnMessagePayload `json:"messages" binding:"required"`
	ConversationID string               `json:"conversationId,omitempty"`
	Model          string               `json:"model,omitempty"`
}

// ToTurnMessages converts the payload to the domain's turn input. No
// validation happens here; the conversation service owns that.
func (r TurnRequest) ToTurnMessages() []conversation.TurnMessage {
	messages := make([]conversation.TurnMessage, 0, len(r.Messages))
	for _, m := range r.Messages {
		messages = append(messages, conversation.TurnMessage{
			Role:    conversation.Role(m.Role),
			Content: m.Content,
		})
	}
	return messages
}
