// Package inference wraps the outbound model-facing services: chat
// completions, best-effort prompt enhancement, and the image render
// URL builder with its liveness probe.
package inference

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/tahien663-cpu/chat-api/internal/domain/conversation"
	"github.com/tahien663-cpu/chat-api/internal/utils/httpclients/chat"
	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

// CompletionResult is the reduced view of a provider response that the
// turn pipeline consumes.
type CompletionResult struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// CompletionService issues chat completions against the configured
// provider. A single instance serves every request; all per-call state
// lives in the context.
type CompletionService struct {
	client       *chat.ChatCompletionClient
	apiKey       string
	defaultModel string
	timeout      time.Duration
}

func NewCompletionService(client *chat.ChatCompletionClient, apiKey, defaultModel string, timeout time.Duration) *CompletionService {
	return &CompletionService{
		client:       client,
		apiKey:       apiKey,
		defaultModel: defaultModel,
		timeout:      timeout,
	}
}

// DefaultModel returns the slug used when a turn does not name a model.
func (s *CompletionService) DefaultModel() string {
	return s.defaultModel
}

// Complete sends the translated message list to the provider and returns
// the first choice. A blank model falls back to the configured default.
// The internal role vocabulary is bridged to the provider's here, via
// conversation.Role.ProviderRole; nothing else rewrites roles.
func (s *CompletionService) Complete(ctx context.Context, model string, messages []conversation.TurnMessage) (*CompletionResult, error) {
	if strings.TrimSpace(model) == "" {
		model = s.defaultModel
	}

	reqMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		reqMessages = append(reqMessages, openai.ChatCompletionMessage{
			Role:    msg.Role.ProviderRole(),
			Content: msg.Content,
		})
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	resp, err := s.client.CreateChatCompletion(callCtx, s.apiKey, openai.ChatCompletionRequest{
		Model:    model,
		Messages: reqMessages,
	})
	if err != nil {
		return nil, err
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"completion response contained no content", nil, "c5d82e19-4b7a-4f06-9e31-8a2d6c40f7b5")
	}

	log.Debug().
		Str("model", model).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Dur("latency", time.Since(started)).
		Msg("completion request finished")

	return &CompletionResult{
		Content:          content,
		Model:            resp.Model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}
