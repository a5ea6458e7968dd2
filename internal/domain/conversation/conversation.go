package conversation

import (
	"context"
	"time"

	"github.com/tahien663-cpu/chat-api/internal/domain/query"
	"github.com/tahien663-cpu/chat-api/internal/utils/stringutils"
)

// ===============================================
// Conversation Constants
// ===============================================

const (
	// PublicIDPrefix is the opaque-identifier prefix for conversations.
	PublicIDPrefix = "conv"

	// TitleMaxRunes caps a conversation title. Titles are derived from the
	// first message of the conversation and set exactly once.
	TitleMaxRunes = 50

	// ImageTitlePrefix starts the title of image-initiated conversations.
	ImageTitlePrefix = "Image: "

	// ImageTitleExcerptRunes is how much of the prompt lands in the title.
	ImageTitleExcerptRunes = 40

	// SummaryMaxRunes caps the last_message summary column.
	SummaryMaxRunes = 100

	// SummaryPlaceholder is stored when a turn carries no usable user text.
	SummaryPlaceholder = "New message"
)

// ===============================================
// Conversation Structure
// ===============================================

// Conversation is a titled, user-owned thread of ordered messages. The
// title is set at creation and never changed; LastMessage and UpdatedAt
// track the most recent successfully persisted exchange.
type Conversation struct {
	ID          uint      `json:"-"`
	PublicID    string    `json:"id"` // opaque string ID like "conv_a3f8d2k9p1m4n7q2"
	UserID      uint      `json:"-"`
	Title       string    `json:"title"`
	LastMessage string    `json:"last_message"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ===============================================
// Conversation Repository
// ===============================================

type ConversationFilter struct {
	ID       *uint
	PublicID *string
	UserID   *uint
}

type ConversationRepository interface {
	Create(ctx context.Context, conversation *Conversation) error
	FindByFilter(ctx context.Context, filter ConversationFilter, pagination *query.Pagination) ([]*Conversation, error)
	Count(ctx context.Context, filter ConversationFilter) (int64, error)
	// FindByPublicID returns (nil, nil) when no row matches.
	FindByPublicID(ctx context.Context, publicID string) (*Conversation, error)
	Update(ctx context.Context, conversation *Conversation) error
	// UpdateSummary sets last_message and updated_at without touching the
	// rest of the row.
	UpdateSummary(ctx context.Context, id uint, lastMessage string, updatedAt time.Time) error
	// Delete removes the conversation; its messages cascade at the store.
	Delete(ctx context.Context, id uint) error
	// FindSummaryCandidates returns conversations with no stored summary
	// that were last touched before the cutoff, oldest first.
	FindSummaryCandidates(ctx context.Context, updatedBefore time.Time, limit int) ([]*Conversation, error)
}

// ===============================================
// Factory & Derivation Helpers
// ===============================================

// NewConversation builds a conversation owned by userID with a derived
// title. The caller supplies the generated public ID.
func NewConversation(publicID string, userID uint, title string) *Conversation {
	now := time.Now().UTC()
	return &Conversation{
		PublicID:  publicID,
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TitleFromContent derives a chat conversation title: the message content
// hard-truncated to TitleMaxRunes, byte-for-byte a prefix of the original.
func TitleFromContent(content string) string {
	return stringutils.Truncate(content, TitleMaxRunes)
}

// TitleFromImagePrompt derives an image conversation title from the
// original prompt.
func TitleFromImagePrompt(prompt string) string {
	return ImageTitlePrefix + stringutils.Truncate(prompt, ImageTitleExcerptRunes)
}

// SummaryFromContent derives the last_message value for a turn. Blank
// content falls back to a fixed placeholder.
func SummaryFromContent(content string) string {
	if content == "" {
		return SummaryPlaceholder
	}
	return stringutils.Truncate(content, SummaryMaxRunes)
}
