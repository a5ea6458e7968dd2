package inference

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/tahien663-cpu/chat-api/internal/utils/httpclients/chat"
	"github.com/tahien663-cpu/chat-api/internal/utils/stringutils"
)

// enhancerInstruction is the fixed system message of the enhancement
// request. It pins the output contract: English, descriptive, short,
// and nothing but the rewritten prompt.
const enhancerInstruction = "You are an expert prompt engineer for image generation models. " +
	"Rewrite the user's prompt into a vivid, detailed image prompt in English. " +
	"Translate to English if needed. Add concrete details about style, lighting, and composition. " +
	"Keep it under 200 characters. Reply with the improved prompt only, no explanations or quotes."

const (
	enhancerMaxRunes  = 200
	enhancerMaxTokens = 120
)

// PromptEnhancer rewrites image prompts through the completion provider
// before rendering. Enhancement is strictly best effort: EnhancePrompt
// never fails, it falls back to the caller's original prompt.
type PromptEnhancer struct {
	client  *chat.ChatCompletionClient
	apiKey  string
	model   string
	timeout time.Duration
}

func NewPromptEnhancer(client *chat.ChatCompletionClient, apiKey, model string, timeout time.Duration) *PromptEnhancer {
	return &PromptEnhancer{
		client:  client,
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
	}
}

// EnhancePrompt returns an enriched version of prompt, or prompt itself
// when the provider errors, times out, or answers with nothing usable.
// The result never exceeds 200 runes.
func (e *PromptEnhancer) EnhancePrompt(ctx context.Context, prompt string) string {
	if strings.TrimSpace(prompt) == "" {
		return prompt
	}

	callCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	resp, err := e.client.CreateChatCompletion(callCtx, e.apiKey, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: enhancerInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
		MaxTokens:   enhancerMaxTokens,
	})
	if err != nil {
		log.Warn().Err(err).Msg("prompt enhancement failed, using original prompt")
		return prompt
	}

	enhanced := strings.TrimSpace(resp.Choices[0].Message.Content)
	if enhanced == "" {
		log.Warn().Msg("prompt enhancement returned empty content, using original prompt")
		return prompt
	}

	return stringutils.TruncateWithEllipsis(enhanced, enhancerMaxRunes)
}
