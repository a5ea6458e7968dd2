package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/tahien663-cpu/chat-api/internal/utils/httpclients"
	"github.com/tahien663-cpu/chat-api/internal/utils/httpclients/chat"
)

func newEnhancer(baseURL string) *PromptEnhancer {
	client := httpclients.NewClient("TestEnhancerClient")
	return NewPromptEnhancer(chat.NewChatCompletionClient(client, "test", baseURL), "test-key", "enhancer-model", 2*time.Second)
}

func TestEnhancePromptSendsInstructionPair(t *testing.T) {
	var gotBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionResponse("A vivid cat, golden hour lighting", "enhancer-model"))
	}))
	defer server.Close()

	got := newEnhancer(server.URL).EnhancePrompt(context.Background(), "a cat")
	if got != "A vivid cat, golden hour lighting" {
		t.Errorf("EnhancePrompt = %q, want the provider output", got)
	}
	if len(gotBody.Messages) != 2 {
		t.Fatalf("request carried %d messages, want 2", len(gotBody.Messages))
	}
	if gotBody.Messages[0].Role != "system" {
		t.Errorf("first message role = %q, want system", gotBody.Messages[0].Role)
	}
	if !strings.Contains(gotBody.Messages[0].Content, "under 200 characters") {
		t.Errorf("system instruction missing length bound: %q", gotBody.Messages[0].Content)
	}
	if gotBody.Messages[1].Role != "user" || gotBody.Messages[1].Content != "a cat" {
		t.Errorf("second message = %q/%q, want the raw prompt under role user", gotBody.Messages[1].Role, gotBody.Messages[1].Content)
	}
}

func TestEnhancePromptReturnsOriginalOnProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	if got := newEnhancer(server.URL).EnhancePrompt(context.Background(), "a dog"); got != "a dog" {
		t.Errorf("EnhancePrompt = %q, want original prompt on provider error", got)
	}
}

func TestEnhancePromptReturnsOriginalWhenUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	if got := newEnhancer(server.URL).EnhancePrompt(context.Background(), "a dog"); got != "a dog" {
		t.Errorf("EnhancePrompt = %q, want original prompt when provider unreachable", got)
	}
}

func TestEnhancePromptReturnsOriginalOnBlankOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionResponse("   \n", "enhancer-model"))
	}))
	defer server.Close()

	if got := newEnhancer(server.URL).EnhancePrompt(context.Background(), "a fox"); got != "a fox" {
		t.Errorf("EnhancePrompt = %q, want original prompt on blank output", got)
	}
}

func TestEnhancePromptSkipsProviderForBlankInput(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionResponse("anything", "enhancer-model"))
	}))
	defer server.Close()

	enhancer := newEnhancer(server.URL)
	for _, prompt := range []string{"", "   ", "\n\t"} {
		if got := enhancer.EnhancePrompt(context.Background(), prompt); got != prompt {
			t.Errorf("EnhancePrompt(%q) = %q, want input unchanged", prompt, got)
		}
	}
	if calls.Load() != 0 {
		t.Errorf("provider called %d times for blank input, want 0", calls.Load())
	}
}

func TestEnhancePromptCapsOutputLength(t *testing.T) {
	long := strings.Repeat("word ", 60)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionResponse(long, "enhancer-model"))
	}))
	defer server.Close()

	got := newEnhancer(server.URL).EnhancePrompt(context.Background(), "a whale")
	if n := utf8.RuneCountInString(got); n > 200 {
		t.Errorf("enhanced prompt is %d runes, want at most 200", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated prompt %q should end with ellipsis", got)
	}
	wantPrefix := strings.TrimSpace(long)[:10]
	if !strings.HasPrefix(got, wantPrefix) {
		t.Errorf("truncated prompt %q should preserve the output prefix %q", got, wantPrefix)
	}
}
