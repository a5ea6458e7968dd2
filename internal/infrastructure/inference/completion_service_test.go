package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tahien663-cpu/chat-api/internal/domain/conversation"
	"github.com/tahien663-cpu/chat-api/internal/utils/httpclients"
	"github.com/tahien663-cpu/chat-api/internal/utils/httpclients/chat"
	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

func newCompletionService(baseURL string) *CompletionService {
	client := httpclients.NewClient("TestCompletionClient")
	return NewCompletionService(chat.NewChatCompletionClient(client, "test", baseURL), "test-key", "default-model", 5*time.Second)
}

func completionResponse(content, model string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  model,
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     12,
			"completion_tokens": 7,
			"total_tokens":      19,
		},
	}
}

func TestCompleteTranslatesRolesAndReturnsReply(t *testing.T) {
	var gotAuth string
	var gotBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionResponse("Hello there!", "test-model"))
	}))
	defer server.Close()

	svc := newCompletionService(server.URL)
	result, err := svc.Complete(context.Background(), "test-model", []conversation.TurnMessage{
		{Role: conversation.RoleUser, Content: "hi"},
		{Role: conversation.RoleAI, Content: "hello"},
		{Role: conversation.RoleUser, Content: "how are you"},
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization header = %q, want %q", gotAuth, "Bearer test-key")
	}
	if gotBody.Model != "test-model" {
		t.Errorf("request model = %q, want %q", gotBody.Model, "test-model")
	}
	wantRoles := []string{"user", "assistant", "user"}
	if len(gotBody.Messages) != len(wantRoles) {
		t.Fatalf("request carried %d messages, want %d", len(gotBody.Messages), len(wantRoles))
	}
	for i, want := range wantRoles {
		if gotBody.Messages[i].Role != want {
			t.Errorf("message[%d].role = %q, want %q", i, gotBody.Messages[i].Role, want)
		}
	}
	if result.Content != "Hello there!" {
		t.Errorf("result.Content = %q, want %q", result.Content, "Hello there!")
	}
	if result.PromptTokens != 12 || result.CompletionTokens != 7 || result.TotalTokens != 19 {
		t.Errorf("usage = %d/%d/%d, want 12/7/19", result.PromptTokens, result.CompletionTokens, result.TotalTokens)
	}
}

func TestCompleteFallsBackToDefaultModel(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		gotModel = body.Model
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionResponse("ok", body.Model))
	}))
	defer server.Close()

	svc := newCompletionService(server.URL)
	if _, err := svc.Complete(context.Background(), "  ", []conversation.TurnMessage{{Role: conversation.RoleUser, Content: "hi"}}); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if gotModel != "default-model" {
		t.Errorf("request model = %q, want fallback %q", gotModel, "default-model")
	}
}

func TestCompleteProviderErrorIsExternal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model overloaded"}`, http.StatusBadGateway)
	}))
	defer server.Close()

	svc := newCompletionService(server.URL)
	_, err := svc.Complete(context.Background(), "m", []conversation.TurnMessage{{Role: conversation.RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error for provider 502")
	}
	if got := platformerrors.TypeOf(err); got != platformerrors.ErrorTypeExternal {
		t.Errorf("error type = %q, want %q", got, platformerrors.ErrorTypeExternal)
	}
}

func TestCompleteUnreachableProviderIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	svc := newCompletionService(server.URL)
	_, err := svc.Complete(context.Background(), "m", []conversation.TurnMessage{{Role: conversation.RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error for unreachable provider")
	}
	if got := platformerrors.TypeOf(err); got != platformerrors.ErrorTypeUnavailable {
		t.Errorf("error type = %q, want %q", got, platformerrors.ErrorTypeUnavailable)
	}
}

func TestCompleteEmptyChoicesIsExternal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": "chatcmpl-1", "object": "chat.completion", "choices": []any{}})
	}))
	defer server.Close()

	svc := newCompletionService(server.URL)
	_, err := svc.Complete(context.Background(), "m", []conversation.TurnMessage{{Role: conversation.RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
	if got := platformerrors.TypeOf(err); got != platformerrors.ErrorTypeExternal {
		t.Errorf("error type = %q, want %q", got, platformerrors.ErrorTypeExternal)
	}
}

func TestCompleteBlankContentIsExternal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionResponse("   ", "m"))
	}))
	defer server.Close()

	svc := newCompletionService(server.URL)
	_, err := svc.Complete(context.Background(), "m", []conversation.TurnMessage{{Role: conversation.RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error for blank content")
	}
	if got := platformerrors.TypeOf(err); got != platformerrors.ErrorTypeExternal {
		t.Errorf("error type = %q, want %q", got, platformerrors.ErrorTypeExternal)
	}
}
