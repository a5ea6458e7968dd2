package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domainconversation "github.com/tahien663-cpu/chat-api/internal/domain/conversation"
	"github.com/tahien663-cpu/chat-api/internal/domain/query"
	"github.com/tahien663-cpu/chat-api/internal/domain/user"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers/authhandler"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers/conversationhandler"
	conversationresponses "github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/responses/conversation"
)

// applyTestPagination mirrors the cursor semantics of the gorm repositories:
// a descending walk returns rows below the cursor, an ascending walk rows
// above it.
func applyTestPagination[T any](rows []T, pagination *query.Pagination, id func(T) uint) []T {
	out := make([]T, 0, len(rows))
	out = append(out, rows...)

	desc := pagination != nil && pagination.Order == "desc"
	if desc {
		sort.Slice(out, func(i, j int) bool { return id(out[i]) > id(out[j]) })
	} else {
		sort.Slice(out, func(i, j int) bool { return id(out[i]) < id(out[j]) })
	}

	if pagination == nil {
		return out
	}

	if pagination.After != nil {
		kept := out[:0]
		for _, row := range out {
			if desc && id(row) < *pagination.After {
				kept = append(kept, row)
			}
			if !desc && id(row) > *pagination.After {
				kept = append(kept, row)
			}
		}
		out = kept
	}

	if pagination.Limit != nil && len(out) > *pagination.Limit {
		out = out[:*pagination.Limit]
	}
	return out
}

type fakeConversationRepo struct {
	rows []*domainconversation.Conversation
}

func (f *fakeConversationRepo) Create(ctx context.Context, conv *domainconversation.Conversation) error {
	conv.ID = uint(len(f.rows) + 1)
	f.rows = append(f.rows, conv)
	return nil
}

func (f *fakeConversationRepo) matches(conv *domainconversation.Conversation, filter domainconversation.ConversationFilter) bool {
	if filter.ID != nil && conv.ID != *filter.ID {
		return false
	}
	if filter.PublicID != nil && conv.PublicID != *filter.PublicID {
		return false
	}
	if filter.UserID != nil && conv.UserID != *filter.UserID {
		return false
	}
	return true
}

func (f *fakeConversationRepo) FindByFilter(ctx context.Context, filter domainconversation.ConversationFilter, pagination *query.Pagination) ([]*domainconversation.Conversation, error) {
	matched := make([]*domainconversation.Conversation, 0, len(f.rows))
	for _, conv := range f.rows {
		if f.matches(conv, filter) {
			matched = append(matched, conv)
		}
	}
	return applyTestPagination(matched, pagination, func(c *domainconversation.Conversation) uint { return c.ID }), nil
}

func (f *fakeConversationRepo) Count(ctx context.Context, filter domainconversation.ConversationFilter) (int64, error) {
	var n int64
	for _, conv := range f.rows {
		if f.matches(conv, filter) {
			n++
		}
	}
	return n, nil
}

func (f *fakeConversationRepo) FindByPublicID(ctx context.Context, publicID string) (*domainconversation.Conversation, error) {
	for _, conv := range f.rows {
		if conv.PublicID == publicID {
			return conv, nil
		}
	}
	return nil, nil
}

func (f *fakeConversationRepo) Update(ctx context.Context, conv *domainconversation.Conversation) error {
	return nil
}

func (f *fakeConversationRepo) UpdateSummary(ctx context.Context, id uint, lastMessage string, updatedAt time.Time) error {
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

func (f *fakeConversationRepo) FindSummaryCandidates(ctx context.Context, updatedBefore time.Time, limit int) ([]*domainconversation.Conversation, error) {
	return nil, nil
}

type fakeMessageRepo struct {
	rows []*domainconversation.Message
}

func (f *fakeMessageRepo) Create(ctx context.Context, msg *domainconversation.Message) error {
	msg.ID = uint(len(f.rows) + 1)
	f.rows = append(f.rows, msg)
	return nil
}

func (f *fakeMessageRepo) matches(msg *domainconversation.Message, filter domainconversation.MessageFilter) bool {
	if filter.ConversationID != nil && msg.ConversationID != *filter.ConversationID {
		return false
	}
	if filter.PublicID != nil && msg.PublicID != *filter.PublicID {
		return false
	}
	if filter.Role != nil && msg.Role != *filter.Role {
		return false
	}
	return true
}

func (f *fakeMessageRepo) FindByFilter(ctx context.Context, filter domainconversation.MessageFilter, pagination *query.Pagination) ([]*domainconversation.Message, error) {
	matched := make([]*domainconversation.Message, 0, len(f.rows))
	for _, msg := range f.rows {
		if f.matches(msg, filter) {
			matched = append(matched, msg)
		}
	}
	return applyTestPagination(matched, pagination, func(m *domainconversation.Message) uint { return m.ID }), nil
}

func (f *fakeMessageRepo) Count(ctx context.Context, filter domainconversation.MessageFilter) (int64, error) {
	var n int64
	for _, msg := range f.rows {
		if f.matches(msg, filter) {
			n++
		}
	}
	return n, nil
}

func (f *fakeMessageRepo) FindByPublicID(ctx context.Context, publicID string) (*domainconversation.Message, error) {
	for _, msg := range f.rows {
		if msg.PublicID == publicID {
			return msg, nil
		}
	}
	return nil, nil
}

type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// newTestRouter registers the conversation routes behind a stub that
// authenticates every request as user 1.
func newTestRouter(t *testing.T, convRepo *fakeConversationRepo, msgRepo *fakeMessageRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service := domainconversation.NewConversationService(convRepo, msgRepo)
	handler := conversationhandler.NewConversationHandler(service)
	authHandler := authhandler.NewAuthHandler(nil, nil, nil, "", zerolog.Nop())

	engine := gin.New()
	group := engine.Group("/v1", func(c *gin.Context) {
		c.Set("app_user", &user.User{ID: 1, PublicID: "user_route-test00001"})
	})
	NewConversationRoute(handler, authHandler).RegisterRouter(group)
	return engine
}

func seedConversation(repo *fakeConversationRepo, id uint, userID uint, publicID, title string) *domainconversation.Conversation {
	conv := &domainconversation.Conversation{
		ID:        id,
		PublicID:  publicID,
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Minute),
		UpdatedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Minute),
	}
	repo.rows = append(repo.rows, conv)
	return conv
}

func seedMessage(repo *fakeMessageRepo, id uint, conversationID uint, publicID string, role domainconversation.Role, content string) *domainconversation.Message {
	msg := &domainconversation.Message{
		ID:             id,
		PublicID:       publicID,
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Date(2026, 2, 1, 11, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Second),
	}
	repo.rows = append(repo.rows, msg)
	return msg
}

func doRequest(t *testing.T, engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func TestListConversationsServesCursorPages(t *testing.T) {
	convRepo := &fakeConversationRepo{}
	msgRepo := &fakeMessageRepo{}
	seedConversation(convRepo, 1, 1, "conv_routefirst00001", "first")
	seedConversation(convRepo, 2, 1, "conv_routesecond0002", "second")
	seedConversation(convRepo, 3, 1, "conv_routethird00003", "third")
	seedConversation(convRepo, 4, 2, "conv_routeforeign004", "foreign")
	engine := newTestRouter(t, convRepo, msgRepo)

	recorder := doRequest(t, engine, http.MethodGet, "/v1/conversations?limit=2")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var page conversationresponses.ConversationListResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &page); err != nil {
		t.Fatalf("failed to decode page: %v", err)
	}
	if page.Object != "list" || len(page.Data) != 2 {
		t.Fatalf("expected a list of 2, got object %q with %d rows", page.Object, len(page.Data))
	}
	if page.Data[0].ID != "conv_routethird00003" || page.Data[1].ID != "conv_routesecond0002" {
		t.Fatalf("expected newest-first page, got %q then %q", page.Data[0].ID, page.Data[1].ID)
	}
	if !page.HasMore || page.Total != 3 {
		t.Fatalf("expected has_more with total 3, got has_more=%v total=%d", page.HasMore, page.Total)
	}

	recorder = doRequest(t, engine, http.MethodGet, fmt.Sprintf("/v1/conversations?limit=2&after=%s", page.LastID))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 for second page, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &page); err != nil {
		t.Fatalf("failed to decode second page: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].ID != "conv_routefirst00001" {
		t.Fatalf("expected the oldest conversation alone on page two, got %+v", page.Data)
	}
	if page.HasMore {
		t.Fatal("expected the cursor to be exhausted on page two")
	}
}

func TestListMessagesDefaultsToChronologicalOrder(t *testing.T) {
	convRepo := &fakeConversationRepo{}
	msgRepo := &fakeMessageRepo{}
	seedConversation(convRepo, 1, 1, "conv_routehistory001", "history")
	seedMessage(msgRepo, 1, 1, "msg_routequestion001", domainconversation.RoleUser, "what is a cursor?")
	seedMessage(msgRepo, 2, 1, "msg_routeanswer00002", domainconversation.RoleAI, "a paging bookmark")
	seedMessage(msgRepo, 3, 1, "msg_routefollowup003", domainconversation.RoleUser, "show me")
	engine := newTestRouter(t, convRepo, msgRepo)

	recorder := doRequest(t, engine, http.MethodGet, "/v1/conversations/conv_routehistory001/messages")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var page conversationresponses.MessageListResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &page); err != nil {
		t.Fatalf("failed to decode page: %v", err)
	}
	if page.ConversationID != "conv_routehistory001" {
		t.Fatalf("expected the conversation echoed back, got %q", page.ConversationID)
	}
	if len(page.Data) != 3 || page.Data[0].ID != "msg_routequestion001" || page.Data[2].ID != "msg_routefollowup003" {
		t.Fatalf("expected oldest-first history, got %+v", page.Data)
	}

	recorder = doRequest(t, engine, http.MethodGet, "/v1/conversations/conv_routehistory001/messages?order=desc")
	if err := json.Unmarshal(recorder.Body.Bytes(), &page); err != nil {
		t.Fatalf("failed to decode reversed page: %v", err)
	}
	if len(page.Data) != 3 || page.Data[0].ID != "msg_routefollowup003" {
		t.Fatalf("expected newest-first history when asked, got %+v", page.Data)
	}
}

func TestListMessagesRejectsBadPagination(t *testing.T) {
	convRepo := &fakeConversationRepo{}
	msgRepo := &fakeMessageRepo{}
	seedConversation(convRepo, 1, 1, "conv_routehistory001", "history")
	seedConversation(convRepo, 2, 1, "conv_routeother00002", "other")
	seedMessage(msgRepo, 1, 2, "msg_routeelsewhere01", domainconversation.RoleUser, "different thread")
	engine := newTestRouter(t, convRepo, msgRepo)

	recorder := doRequest(t, engine, http.MethodGet, "/v1/conversations/conv_routehistory001/messages?limit=0")
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a zero limit, got %d", recorder.Code)
	}
	var body errorBody
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Error.Type != "validation" {
		t.Fatalf("expected a validation error, got %q", body.Error.Type)
	}

	// A cursor that belongs to another conversation must not resolve.
	recorder = doRequest(t, engine, http.MethodGet, "/v1/conversations/conv_routehistory001/messages?after=msg_routeelsewhere01")
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a foreign cursor, got %d", recorder.Code)
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Error.Type != "validation" || body.Error.Message != "invalid pagination cursor" {
		t.Fatalf("expected the cursor to be rejected, got %+v", body.Error)
	}
}

func TestConversationRoutesEnforceOwnership(t *testing.T) {
	convRepo := &fakeConversationRepo{}
	msgRepo := &fakeMessageRepo{}
	seedConversation(convRepo, 1, 2, "conv_routeforeign001", "foreign")
	engine := newTestRouter(t, convRepo, msgRepo)

	for _, tc := range []struct {
		method string
		target string
	}{
		{http.MethodGet, "/v1/conversations/conv_routeforeign001"},
		{http.MethodDelete, "/v1/conversations/conv_routeforeign001"},
		{http.MethodGet, "/v1/conversations/conv_routeforeign001/messages"},
	} {
		recorder := doRequest(t, engine, tc.method, tc.target)
		if recorder.Code != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404, got %d", tc.method, tc.target, recorder.Code)
		}
		var body errorBody
		if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s %s: failed to decode error body: %v", tc.method, tc.target, err)
		}
		if body.Error.Message != "conversation not found" {
			t.Fatalf("%s %s: expected the generic not-found message, got %q", tc.method, tc.target, body.Error.Message)
		}
	}
}
