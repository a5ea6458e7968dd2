package conversation_test

import (
	"strings"
	"testing"

	"github.com/tahien663-cpu/chat-api/internal/domain/conversation"
)

func TestProviderRole(t *testing.T) {
	tests := []struct {
		name string
		role conversation.Role
		want string
	}{
		{"internal ai maps to provider assistant", conversation.RoleAI, "assistant"},
		{"user passes through", conversation.RoleUser, "user"},
		{"unknown labels pass through", conversation.Role("tool"), "tool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.ProviderRole(); got != tt.want {
				t.Errorf("ProviderRole() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateRole(t *testing.T) {
	valid := []string{"user", "ai"}
	for _, role := range valid {
		if !conversation.ValidateRole(role) {
			t.Errorf("ValidateRole(%q) = false, want true", role)
		}
	}

	invalid := []string{"assistant", "system", "USER", "", "AI"}
	for _, role := range invalid {
		if conversation.ValidateRole(role) {
			t.Errorf("ValidateRole(%q) = true, want false", role)
		}
	}
}

func TestLastUserMessage(t *testing.T) {
	messages := []conversation.TurnMessage{
		{Role: conversation.RoleUser, Content: "first question"},
		{Role: conversation.RoleAI, Content: "first answer"},
		{Role: conversation.RoleUser, Content: "second question"},
		{Role: conversation.RoleAI, Content: "second answer"},
	}

	got, ok := conversation.LastUserMessage(messages)
	if !ok {
		t.Fatal("expected a user message")
	}
	if got.Content != "second question" {
		t.Errorf("Content = %q, want the most recent user message", got.Content)
	}

	if _, ok := conversation.LastUserMessage([]conversation.TurnMessage{{Role: conversation.RoleAI, Content: "only ai"}}); ok {
		t.Error("expected ok = false when no user message exists")
	}

	if _, ok := conversation.LastUserMessage(nil); ok {
		t.Error("expected ok = false for empty list")
	}
}

func TestTitleFromContent(t *testing.T) {
	long := strings.Repeat("t", 80)
	got := conversation.TitleFromContent(long)
	if got != strings.Repeat("t", 50) {
		t.Errorf("TitleFromContent() = %q, want exactly the first 50 runes", got)
	}
	if !strings.HasPrefix(long, got) {
		t.Error("title is not a prefix of the content")
	}

	short := "Hello there"
	if conversation.TitleFromContent(short) != short {
		t.Errorf("short content must pass through unchanged")
	}
}

func TestTitleFromImagePrompt(t *testing.T) {
	got := conversation.TitleFromImagePrompt("a cat")
	if got != "Image: a cat" {
		t.Errorf("TitleFromImagePrompt() = %q, want %q", got, "Image: a cat")
	}

	long := strings.Repeat("p", 60)
	got = conversation.TitleFromImagePrompt(long)
	want := "Image: " + strings.Repeat("p", 40)
	if got != want {
		t.Errorf("TitleFromImagePrompt() = %q, want %q", got, want)
	}
}

func TestSummaryFromContent(t *testing.T) {
	if got := conversation.SummaryFromContent(""); got != conversation.SummaryPlaceholder {
		t.Errorf("SummaryFromContent(\"\") = %q, want placeholder", got)
	}

	long := strings.Repeat("s", 140)
	if got := conversation.SummaryFromContent(long); got != strings.Repeat("s", 100) {
		t.Errorf("SummaryFromContent() = %q, want first 100 runes", got)
	}

	if got := conversation.SummaryFromContent("short"); got != "short" {
		t.Errorf("SummaryFromContent(\"short\") = %q, want unchanged", got)
	}
}
