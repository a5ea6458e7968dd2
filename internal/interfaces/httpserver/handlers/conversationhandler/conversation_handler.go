// Package conversationhandler serves conversation listing, detail, history,
// and deletion.
package conversationhandler

import (
	"context"

	"github.com/tahien663-cpu/chat-api/internal/domain/conversation"
	"github.com/tahien663-cpu/chat-api/internal/domain/query"
	conversationresponses "github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/responses/conversation"
)

// ConversationHandler handles conversation resource requests.
type ConversationHandler struct {
	conversationService *conversation.ConversationService
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(conversationService *conversation.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// GetConversation returns one owned conversation.
func (h *ConversationHandler) GetConversation(
	ctx context.Context,
	userID uint,
	conversationID string,
) (*conversationresponses.ConversationResponse, error) {
	conv, err := h.conversationService.GetConversationByPublicIDAndUserID(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	return conversationresponses.NewConversationResponse(conv), nil
}

// ListConversations returns the caller's conversations one cursor page at
// a time. One extra row is fetched to decide has_more, then trimmed.
func (h *ConversationHandler) ListConversations(
	ctx context.Context,
	userID uint,
	pagination *query.Pagination,
) (*conversationresponses.ConversationListResponse, error) {
	filter := conversation.ConversationFilter{UserID: &userID}

	var requestedLimit *int
	if pagination != nil && pagination.Limit != nil {
		requestedLimit = pagination.Limit
		probeLimit := *pagination.Limit + 1
		pagination.Limit = &probeLimit
	}

	conversations, total, err := h.conversationService.FindConversationsByFilter(ctx, filter, pagination)
	if err != nil {
		return nil, err
	}

	hasMore := false
	if requestedLimit != nil && len(conversations) > *requestedLimit {
		hasMore = true
		conversations = conversations[:*requestedLimit]
	}

	return conversationresponses.NewConversationListResponse(conversations, hasMore, total), nil
}

// ListMessages returns one cursor page of an owned conversation's history.
func (h *ConversationHandler) ListMessages(
	ctx context.Context,
	userID uint,
	conversationID string,
	pagination *query.Pagination,
) (*conversationresponses.MessageListResponse, error) {
	var requestedLimit *int
	if pagination != nil && pagination.Limit != nil {
		requestedLimit = pagination.Limit
		probeLimit := *pagination.Limit + 1
		pagination.Limit = &probeLimit
	}

	messages, conv, err := h.conversationService.ListMessages(ctx, userID, conversationID, pagination)
	if err != nil {
		return nil, err
	}

	hasMore := false
	if requestedLimit != nil && len(messages) > *requestedLimit {
		hasMore = true
		messages = messages[:*requestedLimit]
	}

	return conversationresponses.NewMessageListResponse(conv.PublicID, messages, hasMore), nil
}

// DeleteConversation removes an owned conversation; its messages cascade at
// the store.
func (h *ConversationHandler) DeleteConversation(
	ctx context.Context,
	userID uint,
	conversationID string,
) (*conversationresponses.ConversationDeletedResponse, error) {
	if err := h.conversationService.DeleteConversationByID(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return conversationresponses.NewConversationDeletedResponse(conversationID), nil
}

// ResolveConversationCursor translates a conversation public ID from an
// after query parameter into the numeric row ID the listing paginates on.
// Only the owner's conversations resolve.
func (h *ConversationHandler) ResolveConversationCursor(
	ctx context.Context,
	userID uint,
	conversationPublicID string,
) (*uint, error) {
	conv, err := h.conversationService.GetConversationByPublicIDAndUserID(ctx, conversationPublicID, userID)
	if err != nil {
		return nil, err
	}
	return &conv.ID, nil
}

// ResolveMessageCursor translates a message public ID from an after query
// parameter into the numeric row ID repositories paginate on. Ownership of
// the surrounding conversation is enforced on the way.
func (h *ConversationHandler) ResolveMessageCursor(
	ctx context.Context,
	userID uint,
	conversationID string,
	messagePublicID string,
) (*uint, error) {
	msg, err := h.conversationService.GetOwnedMessage(ctx, userID, conversationID, messagePublicID)
	if err != nil {
		return nil, err
	}
	return &msg.ID, nil
}
