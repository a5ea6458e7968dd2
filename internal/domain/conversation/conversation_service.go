package conversation

import (
	"context"
	"time"

	"github.com/tahien663-cpu/chat-api/internal/domain/query"
	"github.com/tahien663-cpu/chat-api/internal/utils/idgen"
	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

// ConversationService handles business logic for conversations and their
// messages. It owns identifier generation, ownership checks, and the
// summary bookkeeping of a turn; orchestration across providers lives in
// the handlers.
type ConversationService struct {
	repo        ConversationRepository
	messageRepo MessageRepository
	validator   *TurnValidator
}

// NewConversationService creates a new conversation service
func NewConversationService(repo ConversationRepository, messageRepo MessageRepository) *ConversationService {
	return &ConversationService{
		repo:        repo,
		messageRepo: messageRepo,
		validator:   NewTurnValidator(nil), // Use default config
	}
}

// ===============================================
// Turn Entry Validation
// ===============================================

// ValidateTurnMessages rejects malformed chat-turn input before any side
// effect occurs.
func (s *ConversationService) ValidateTurnMessages(ctx context.Context, messages []TurnMessage) error {
	if err := s.validator.ValidateTurnMessages(messages); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, err.Error(), err, "5b8e2f41-a9c3-4d67-b012-8e94f6a1c253")
	}
	return nil
}

// ValidateImagePrompt rejects malformed image-turn input before any side
// effect occurs.
func (s *ConversationService) ValidateImagePrompt(ctx context.Context, prompt string) error {
	if err := s.validator.ValidateImagePrompt(prompt); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, err.Error(), err, "1c7d93e5-4f28-4b6a-90d1-3a5e8c2b7f64")
	}
	return nil
}

// ===============================================
// Conversation Resolution
// ===============================================

// CreateConversation creates a conversation owned by userID with the given
// derived title.
func (s *ConversationService) CreateConversation(ctx context.Context, userID uint, title string) (*Conversation, error) {
	publicID, err := idgen.GenerateSecureID(PublicIDPrefix, 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate conversation ID")
	}

	conv := NewConversation(publicID, userID, title)
	if err := s.repo.Create(ctx, conv); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create conversation")
	}
	return conv, nil
}

// GetConversationByPublicIDAndUserID retrieves a conversation by public ID
// and validates ownership. A syntactically invalid ID is a validation
// error and never reaches the store. An absent row and a row owned by
// someone else both come back as "conversation not found".
func (s *ConversationService) GetConversationByPublicIDAndUserID(ctx context.Context, publicID string, userID uint) (*Conversation, error) {
	if err := s.validator.ValidateConversationID(publicID); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid conversation ID", err, "b2c3d4e5-f6a7-4b8c-9d0e-1f2a3b4c5d6e")
	}

	conv, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to look up conversation")
	}
	if conv == nil || conv.UserID != userID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "conversation not found", nil, "c3d4e5f6-a7b8-4c9d-0e1f-2a3b4c5d6e7f")
	}
	return conv, nil
}

// ResolveForTurn returns the conversation a turn targets: the owned
// existing one when publicID is set, otherwise a fresh conversation with
// the supplied derived title. The second return value reports whether a
// conversation was created.
func (s *ConversationService) ResolveForTurn(ctx context.Context, userID uint, publicID string, title string) (*Conversation, bool, error) {
	if publicID == "" {
		conv, err := s.CreateConversation(ctx, userID, title)
		if err != nil {
			return nil, false, err
		}
		return conv, true, nil
	}

	conv, err := s.GetConversationByPublicIDAndUserID(ctx, publicID, userID)
	if err != nil {
		return nil, false, err
	}
	return conv, false, nil
}

// ===============================================
// Message Operations
// ===============================================

// AppendMessage persists one message in the conversation and returns it
// with its generated identifier and timestamp.
func (s *ConversationService) AppendMessage(ctx context.Context, conv *Conversation, role Role, content string, metadata *MessageMetadata) (*Message, error) {
	publicID, err := idgen.GenerateSecureID(MessagePublicIDPrefix, 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate message ID")
	}

	msg := NewMessage(publicID, conv.ID, role, content, metadata)
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to persist message")
	}
	return msg, nil
}

// ListMessages returns the messages of an owned conversation ordered by
// creation time.
func (s *ConversationService) ListMessages(ctx context.Context, userID uint, conversationPublicID string, pagination *query.Pagination) ([]*Message, *Conversation, error) {
	conv, err := s.GetConversationByPublicIDAndUserID(ctx, conversationPublicID, userID)
	if err != nil {
		return nil, nil, err
	}

	messages, err := s.messageRepo.FindByFilter(ctx, MessageFilter{ConversationID: &conv.ID}, pagination)
	if err != nil {
		return nil, nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list messages")
	}
	return messages, conv, nil
}

// GetOwnedMessage returns one message of an owned conversation. An absent
// message and a message from another conversation surface the same way.
func (s *ConversationService) GetOwnedMessage(ctx context.Context, userID uint, conversationPublicID, messagePublicID string) (*Message, error) {
	conv, err := s.GetConversationByPublicIDAndUserID(ctx, conversationPublicID, userID)
	if err != nil {
		return nil, err
	}

	msg, err := s.messageRepo.FindByPublicID(ctx, messagePublicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to look up message")
	}
	if msg == nil || msg.ConversationID != conv.ID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"message not found", nil, "83f1c5d9-2b60-4a74-9e8c-07d5b2f4a619")
	}
	return msg, nil
}

// ===============================================
// Summary Bookkeeping
// ===============================================

// UpdateSummary sets the conversation's last_message from the turn's user
// text and bumps updated_at. Callers treat its failure as best effort.
func (s *ConversationService) UpdateSummary(ctx context.Context, conv *Conversation, content string) error {
	summary := SummaryFromContent(content)
	now := time.Now().UTC()
	if err := s.repo.UpdateSummary(ctx, conv.ID, summary, now); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update conversation summary")
	}
	conv.LastMessage = summary
	conv.UpdatedAt = now
	return nil
}

// ===============================================
// Listing & Deletion
// ===============================================

// FindConversationsByFilter retrieves conversations using flexible filter criteria with pagination
func (s *ConversationService) FindConversationsByFilter(ctx context.Context, filter ConversationFilter, pagination *query.Pagination) ([]*Conversation, int64, error) {
	conversations, err := s.repo.FindByFilter(ctx, filter, pagination)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list conversations")
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count conversations")
	}

	return conversations, total, nil
}

// DeleteConversationByID removes an owned conversation and, via the store's
// cascade, all of its messages.
func (s *ConversationService) DeleteConversationByID(ctx context.Context, userID uint, publicID string) error {
	conv, err := s.GetConversationByPublicIDAndUserID(ctx, publicID, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, conv.ID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete conversation")
	}
	return nil
}

// ===============================================
// Maintenance
// ===============================================

// RealignResult reports what one maintenance pass changed.
type RealignResult struct {
	Pruned    int
	Realigned int
}

// RealignStaleSummaries repairs conversations the best-effort pipeline
// steps left behind: rows without a summary that have messages get
// last_message and updated_at re-derived from the newest persisted
// message; rows without any message older than the cutoff are pruned.
func (s *ConversationService) RealignStaleSummaries(ctx context.Context, updatedBefore time.Time, limit int) (RealignResult, error) {
	var result RealignResult

	candidates, err := s.repo.FindSummaryCandidates(ctx, updatedBefore, limit)
	if err != nil {
		return result, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list summary candidates")
	}

	one := 1
	for _, conv := range candidates {
		newest, err := s.messageRepo.FindByFilter(ctx, MessageFilter{ConversationID: &conv.ID}, &query.Pagination{
			Order: "desc",
			Limit: &one,
		})
		if err != nil {
			return result, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load newest message")
		}

		if len(newest) == 0 {
			if err := s.repo.Delete(ctx, conv.ID); err != nil {
				return result, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to prune empty conversation")
			}
			result.Pruned++
			continue
		}

		msg := newest[0]
		if err := s.repo.UpdateSummary(ctx, conv.ID, SummaryFromContent(msg.Content), msg.CreatedAt); err != nil {
			return result, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to realign conversation summary")
		}
		result.Realigned++
	}

	return result, nil
}
