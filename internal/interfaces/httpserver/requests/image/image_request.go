// Package imagerequests carries the wire shape of an image turn.
package imagerequests

// ImageTurnRequest is the body of POST /v1/images. ConversationID is
// optional; a blank value starts a new conversation titled from the prompt.
type ImageTurnRequest struct {
	Prompt         string `json:"prompt" binding:"required"`
	ConversationID string `json:"conversationId,omitempty"`
}
