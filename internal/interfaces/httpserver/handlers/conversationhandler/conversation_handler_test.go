package conversationhandler_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/tahien663-cpu/chat-api/internal/domain/conversation"
	"github.com/tahien663-cpu/chat-api/internal/domain/query"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers/conversationhandler"
	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

// ===============================================
// Fakes
// ===============================================

// fakeConversationRepo keeps rows in a slice and honors the cursor
// semantics the real repository applies: order by id in the requested
// direction, a descending walk bounded from above by the cursor.
type fakeConversationRepo struct {
	rows   []*conversation.Conversation
	nextID uint
}

func (f *fakeConversationRepo) Create(ctx context.Context, conv *conversation.Conversation) error {
	f.nextID++
	conv.ID = f.nextID
	f.rows = append(f.rows, conv)
	return nil
}

func (f *fakeConversationRepo) FindByFilter(ctx context.Context, filter conversation.ConversationFilter, pagination *query.Pagination) ([]*conversation.Conversation, error) {
	var out []*conversation.Conversation
	for _, conv := range f.rows {
		if filter.UserID != nil && conv.UserID != *filter.UserID {
			continue
		}
		if filter.PublicID != nil && conv.PublicID != *filter.PublicID {
			continue
		}
		out = append(out, conv)
	}
	return applyFakePagination(out, pagination, func(c *conversation.Conversation) uint { return c.ID }), nil
}

func (f *fakeConversationRepo) Count(ctx context.Context, filter conversation.ConversationFilter) (int64, error) {
	rows, _ := f.FindByFilter(ctx, filter, nil)
	return int64(len(rows)), nil
}

func (f *fakeConversationRepo) FindByPublicID(ctx context.Context, publicID string) (*conversation.Conversation, error) {
	for _, conv := range f.rows {
		if conv.PublicID == publicID {
			return conv, nil
		}
	}
	return nil, nil
}

func (f *fakeConversationRepo) Update(ctx context.Context, conv *conversation.Conversation) error {
	return nil
}

func (f *fakeConversationRepo) UpdateSummary(ctx context.Context, id uint, lastMessage string, updatedAt time.Time) error {
	for _, conv := range f.rows {
		if conv.ID == id {
			conv.LastMessage = lastMessage
			conv.UpdatedAt = updatedAt
		}
	}
	return nil
}

func (f *fakeConversationRepo) Delete(ctx context.Context, id uint) error {
	kept := f.rows[:0]
	for _, conv := range f.rows {
		if conv.ID != id {
			kept = append(kept, conv)
		}
	}
	f.rows = kept
	return nil
}

func (f *fakeConversationRepo) FindSummaryCandidates(ctx context.Context, updatedBefore time.Time, limit int) ([]*conversation.Conversation, error) {
	return nil, nil
}

type fakeMessageRepo struct {
	rows   []*conversation.Message
	nextID uint
}

func (f *fakeMessageRepo) Create(ctx context.Context, msg *conversation.Message) error {
	f.nextID++
	msg.ID = f.nextID
	f.rows = append(f.rows, msg)
	return nil
}

func (f *fakeMessageRepo) FindByFilter(ctx context.Context, filter conversation.MessageFilter, pagination *query.Pagination) ([]*conversation.Message, error) {
	var out []*conversation.Message
	for _, msg := range f.rows {
		if filter.ConversationID != nil && msg.ConversationID != *filter.ConversationID {
			continue
		}
		out = append(out, msg)
	}
	return applyFakePagination(out, pagination, func(m *conversation.Message) uint { return m.ID }), nil
}

func (f *fakeMessageRepo) Count(ctx context.Context, filter conversation.MessageFilter) (int64, error) {
	rows, _ := f.FindByFilter(ctx, filter, nil)
	return int64(len(rows)), nil
}

func (f *fakeMessageRepo) FindByPublicID(ctx context.Context, publicID string) (*conversation.Message, error) {
	for _, msg := range f.rows {
		if msg.PublicID == publicID {
			return msg, nil
		}
	}
	return nil, nil
}

func applyFakePagination[T any](rows []T, pagination *query.Pagination, id func(T) uint) []T {
	if pagination == nil {
		return rows
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if pagination.After != nil {
			if pagination.Order == "desc" && id(row) >= *pagination.After {
				continue
			}
			if pagination.Order != "desc" && id(row) <= *pagination.After {
				continue
			}
		}
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		if pagination.Order == "desc" {
			return id(out[i]) > id(out[j])
		}
		return id(out[i]) < id(out[j])
	})

	if pagination.Limit != nil && *pagination.Limit > 0 && len(out) > *pagination.Limit {
		out = out[:*pagination.Limit]
	}
	return out
}

// ===============================================
// Harness
// ===============================================

type convTestEnv struct {
	handler       *conversationhandler.ConversationHandler
	conversations *conversation.ConversationService
}

func newConvTestEnv(t *testing.T) *convTestEnv {
	t.Helper()
	conversations := conversation.NewConversationService(&fakeConversationRepo{}, &fakeMessageRepo{})
	return &convTestEnv{
		handler:       conversationhandler.NewConversationHandler(conversations),
		conversations: conversations,
	}
}

func (env *convTestEnv) mustCreate(t *testing.T, userID uint, title string) *conversation.Conversation {
	t.Helper()
	conv, err := env.conversations.CreateConversation(context.Background(), userID, title)
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	return conv
}

func (env *convTestEnv) mustAppend(t *testing.T, conv *conversation.Conversation, role conversation.Role, content string) *conversation.Message {
	t.Helper()
	msg, err := env.conversations.AppendMessage(context.Background(), conv, role, content, nil)
	if err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	return msg
}

func intPtr(v int) *int { return &v }

// ===============================================
// Tests
// ===============================================

func TestListConversationsPagesWithCursor(t *testing.T) {
	env := newConvTestEnv(t)
	first := env.mustCreate(t, 7, "first")
	second := env.mustCreate(t, 7, "second")
	third := env.mustCreate(t, 7, "third")
	env.mustCreate(t, 99, "someone else's")

	page, err := env.handler.ListConversations(context.Background(), 7, &query.Pagination{
		Limit: intPtr(2),
		Order: "desc",
	})
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}

	if page.Object != "list" {
		t.Errorf("object = %q", page.Object)
	}
	if len(page.Data) != 2 {
		t.Fatalf("page holds %d conversations, want 2", len(page.Data))
	}
	if page.Data[0].ID != third.PublicID || page.Data[1].ID != second.PublicID {
		t.Errorf("page = [%s, %s], want newest first", page.Data[0].ID, page.Data[1].ID)
	}
	if page.Data[0].Object != "conversation" {
		t.Errorf("item object = %q", page.Data[0].Object)
	}
	if !page.HasMore {
		t.Error("has_more = false with a third conversation remaining")
	}
	if page.Total != 3 {
		t.Errorf("total = %d, want the caller's conversations only", page.Total)
	}
	if page.FirstID != third.PublicID || page.LastID != second.PublicID {
		t.Errorf("cursor edges = %s / %s", page.FirstID, page.LastID)
	}

	nextPage, err := env.handler.ListConversations(context.Background(), 7, &query.Pagination{
		Limit: intPtr(2),
		Order: "desc",
		After: &second.ID,
	})
	if err != nil {
		t.Fatalf("ListConversations page 2: %v", err)
	}
	if len(nextPage.Data) != 1 || nextPage.Data[0].ID != first.PublicID {
		t.Fatalf("page 2 = %+v, want the first conversation only", nextPage.Data)
	}
	if nextPage.HasMore {
		t.Error("has_more = true on the final page")
	}
}

func TestGetConversationEnforcesOwnership(t *testing.T) {
	env := newConvTestEnv(t)
	owned := env.mustCreate(t, 7, "mine")
	foreign := env.mustCreate(t, 99, "not mine")

	resp, err := env.handler.GetConversation(context.Background(), 7, owned.PublicID)
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	if resp.ID != owned.PublicID || resp.Title != "mine" || resp.Object != "conversation" {
		t.Errorf("response = %+v", resp)
	}

	_, err = env.handler.GetConversation(context.Background(), 7, foreign.PublicID)
	if got := platformerrors.TypeOf(err); got != platformerrors.ErrorTypeNotFound {
		t.Errorf("foreign lookup error type = %s, want not_found", got)
	}
}

func TestDeleteConversationRemovesRow(t *testing.T) {
	env := newConvTestEnv(t)
	conv := env.mustCreate(t, 7, "short lived")

	resp, err := env.handler.DeleteConversation(context.Background(), 7, conv.PublicID)
	if err != nil {
		t.Fatalf("DeleteConversation: %v", err)
	}
	if resp.ID != conv.PublicID || resp.Object != "conversation.deleted" || !resp.Deleted {
		t.Errorf("response = %+v", resp)
	}

	_, err = env.handler.GetConversation(context.Background(), 7, conv.PublicID)
	if got := platformerrors.TypeOf(err); got != platformerrors.ErrorTypeNotFound {
		t.Errorf("lookup after delete error type = %s, want not_found", got)
	}

	_, err = env.handler.DeleteConversation(context.Background(), 7, conv.PublicID)
	if got := platformerrors.TypeOf(err); got != platformerrors.ErrorTypeNotFound {
		t.Errorf("second delete error type = %s, want not_found", got)
	}
}

func TestListMessagesPagesHistory(t *testing.T) {
	env := newConvTestEnv(t)
	conv := env.mustCreate(t, 7, "history")
	first := env.mustAppend(t, conv, conversation.RoleUser, "q1")
	second := env.mustAppend(t, conv, conversation.RoleAI, "a1")
	third := env.mustAppend(t, conv, conversation.RoleUser, "q2")

	page, err := env.handler.ListMessages(context.Background(), 7, conv.PublicID, &query.Pagination{
		Limit: intPtr(2),
		Order: "asc",
	})
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if page.ConversationID != conv.PublicID || page.Object != "list" {
		t.Errorf("page envelope = %q %q", page.Object, page.ConversationID)
	}
	if len(page.Data) != 2 || page.Data[0].ID != first.PublicID || page.Data[1].ID != second.PublicID {
		t.Fatalf("page = %+v, want the two oldest messages", page.Data)
	}
	if !page.HasMore {
		t.Error("has_more = false with a third message remaining")
	}

	cursor, err := env.handler.ResolveMessageCursor(context.Background(), 7, conv.PublicID, second.PublicID)
	if err != nil {
		t.Fatalf("ResolveMessageCursor: %v", err)
	}
	nextPage, err := env.handler.ListMessages(context.Background(), 7, conv.PublicID, &query.Pagination{
		Limit: intPtr(2),
		Order: "asc",
		After: cursor,
	})
	if err != nil {
		t.Fatalf("ListMessages page 2: %v", err)
	}
	if len(nextPage.Data) != 1 || nextPage.Data[0].ID != third.PublicID {
		t.Fatalf("page 2 = %+v, want the newest message only", nextPage.Data)
	}
	if nextPage.HasMore {
		t.Error("has_more = true on the final page")
	}

	_, err = env.handler.ListMessages(context.Background(), 99, conv.PublicID, nil)
	if got := platformerrors.TypeOf(err); got != platformerrors.ErrorTypeNotFound {
		t.Errorf("foreign history read error type = %s, want not_found", got)
	}
}

func TestResolveMessageCursorGuards(t *testing.T) {
	env := newConvTestEnv(t)
	conv := env.mustCreate(t, 7, "a")
	other := env.mustCreate(t, 7, "b")
	msg := env.mustAppend(t, other, conversation.RoleUser, "elsewhere")

	_, err := env.handler.ResolveMessageCursor(context.Background(), 7, conv.PublicID, msg.PublicID)
	if got := platformerrors.TypeOf(err); got != platformerrors.ErrorTypeNotFound {
		t.Errorf("cross-conversation cursor error type = %s, want not_found", got)
	}

	_, err = env.handler.ResolveMessageCursor(context.Background(), 7, conv.PublicID, "msg_0000000000000000")
	if got := platformerrors.TypeOf(err); got != platformerrors.ErrorTypeNotFound {
		t.Errorf("absent cursor error type = %s, want not_found", got)
	}
}
