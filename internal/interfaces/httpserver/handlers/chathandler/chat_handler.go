// Package chathandler drives the chat turn pipeline: validate, resolve the
// conversation, capture the user's text, call the completion provider, and
// persist the reply.
package chathandler

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tahien663-cpu/chat-api/internal/domain/conversation"
	"github.com/tahien663-cpu/chat-api/internal/domain/model"
	"github.com/tahien663-cpu/chat-api/internal/domain/tokenusage"
	"github.com/tahien663-cpu/chat-api/internal/domain/turn"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/inference"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/metrics"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/observability"
	chatrequests "github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/requests/chat"
	chatresponses "github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/responses/chat"
	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

// CompletionClient is the slice of the completion provider the pipeline
// needs. A blank model selects the provider's configured default.
type CompletionClient interface {
	Complete(ctx context.Context, model string, messages []conversation.TurnMessage) (*inference.CompletionResult, error)
	DefaultModel() string
}

// ModelResolver validates a requested model slug against the catalog.
type ModelResolver interface {
	ResolveForTurn(ctx context.Context, slug string) (*model.Model, error)
}

// UsageRecorder books token consumption after a successful completion.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, usage *tokenusage.TokenUsage) error
}

var _ CompletionClient = (*inference.CompletionService)(nil)
var _ ModelResolver = (*model.CatalogService)(nil)
var _ UsageRecorder = (*tokenusage.Service)(nil)

// ChatHandler handles chat turns.
type ChatHandler struct {
	conversationService *conversation.ConversationService
	completionClient    CompletionClient
	modelResolver       ModelResolver
	usageRecorder       UsageRecorder
	providerName        string
	logger              zerolog.Logger
}

// NewChatHandler creates a new chat handler. providerName labels metrics and
// usage rows with the completion provider behind the client.
func NewChatHandler(
	conversationService *conversation.ConversationService,
	completionClient CompletionClient,
	modelResolver ModelResolver,
	usageRecorder UsageRecorder,
	providerName string,
	logger zerolog.Logger,
) *ChatHandler {
	return &ChatHandler{
		conversationService: conversationService,
		completionClient:    completionClient,
		modelResolver:       modelResolver,
		usageRecorder:       usageRecorder,
		providerName:        providerName,
		logger:              logger,
	}
}

// SubmitChatTurn runs one chat turn. Validation and model resolution fail
// before any write; the user's message is captured before the provider call
// so a completion failure cannot lose it; the reply persist is the only
// write that aborts the turn.
func (h *ChatHandler) SubmitChatTurn(
	ctx context.Context,
	userID uint,
	request chatrequests.TurnRequest,
) (*chatresponses.TurnResponse, error) {
	ctx, span := observability.StartSpan(ctx, "chat-api", "ChatHandler.SubmitChatTurn")
	defer span.End()

	startTime := time.Now()
	messages := request.ToTurnMessages()

	observability.AddSpanAttributes(ctx,
		attribute.String("chat.model", request.Model),
		attribute.Int("chat.message_count", len(messages)),
		attribute.Int("user.id", int(userID)),
	)

	if err := h.conversationService.ValidateTurnMessages(ctx, messages); err != nil {
		observability.RecordError(ctx, err)
		return nil, err
	}

	modelSlug, err := h.resolveModelSlug(ctx, request.Model)
	if err != nil {
		observability.RecordError(ctx, err)
		return nil, err
	}

	// The service's errors are already classified and phrased for the
	// client; wrapping here would rewrite "conversation not found".
	conv, created, err := h.conversationService.ResolveForTurn(
		ctx, userID, request.ConversationID, conversation.TitleFromContent(messages[0].Content))
	if err != nil {
		observability.RecordError(ctx, err)
		return nil, err
	}
	observability.AddSpanAttributes(ctx,
		attribute.String("conversation.id", conv.PublicID),
		attribute.Bool("conversation.created", created),
	)

	lastUser, hasUserMessage := conversation.LastUserMessage(messages)
	if hasUserMessage {
		_, persistErr := h.conversationService.AppendMessage(ctx, conv, conversation.RoleUser, lastUser.Content, nil)
		h.logStep(ctx, conv.PublicID, turn.BestEffort("persist_user_message", persistErr))
	}

	observability.AddSpanEvent(ctx, "calling_completion_provider")
	llmStart := time.Now()
	result, err := h.completionClient.Complete(ctx, modelSlug, messages)
	llmDuration := time.Since(llmStart)
	if err != nil {
		metrics.RecordProviderError(h.providerName, string(platformerrors.TypeOf(err)))
		observability.RecordError(ctx, err)
		observability.AddSpanAttributes(ctx, attribute.String("completion.status", "failed"))
		return nil, err
	}

	usageModel := firstNonEmpty(result.Model, modelSlug, h.completionClient.DefaultModel())
	metrics.RecordTokens(usageModel, h.providerName, result.PromptTokens, result.CompletionTokens)
	metrics.RecordCompletionDuration(usageModel, h.providerName, llmDuration.Seconds())
	observability.AddSpanAttributes(ctx,
		attribute.String("completion.model", usageModel),
		attribute.Int("completion.prompt_tokens", result.PromptTokens),
		attribute.Int("completion.completion_tokens", result.CompletionTokens),
		attribute.Int("completion.total_tokens", result.TotalTokens),
		attribute.Float64("completion.llm_duration_ms", float64(llmDuration.Milliseconds())),
		attribute.String("completion.status", "success"),
	)

	aiMessage, err := h.conversationService.AppendMessage(ctx, conv, conversation.RoleAI, result.Content, nil)
	if step := turn.Critical("persist_ai_message", err); step.Fatal() {
		observability.RecordError(ctx, step.Err)
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, step.Err, "failed to persist reply")
	}

	h.logStep(ctx, conv.PublicID, turn.BestEffort("update_summary",
		h.conversationService.UpdateSummary(ctx, conv, lastUser.Content)))

	h.recordUsage(ctx, userID, conv.PublicID, usageModel, result)

	observability.AddSpanAttributes(ctx,
		attribute.Float64("turn.total_duration_ms", float64(time.Since(startTime).Milliseconds())),
	)
	observability.SetSpanStatus(ctx, codes.Ok, "chat turn completed")

	return chatresponses.NewTurnResponse(result.Content, aiMessage, conv), nil
}

// resolveModelSlug maps the requested model to a catalog slug. Blank means
// "use the provider default" and skips the catalog; anything else must name
// an enabled entry.
func (h *ChatHandler) resolveModelSlug(ctx context.Context, requested string) (string, error) {
	if strings.TrimSpace(requested) == "" {
		return "", nil
	}
	resolved, err := h.modelResolver.ResolveForTurn(ctx, requested)
	if err != nil {
		return "", err
	}
	return resolved.Slug, nil
}

// recordUsage books the turn's token consumption. Best effort: accounting
// must not fail a turn whose reply is already persisted.
func (h *ChatHandler) recordUsage(ctx context.Context, userID uint, conversationPublicID, usageModel string, result *inference.CompletionResult) {
	if h.usageRecorder == nil {
		return
	}

	usage := &tokenusage.TokenUsage{
		UserID:           userID,
		ConversationID:   &conversationPublicID,
		Model:            usageModel,
		Provider:         h.providerName,
		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.CompletionTokens,
		TotalTokens:      result.TotalTokens,
	}
	if err := h.usageRecorder.RecordUsage(ctx, usage); err != nil {
		h.logger.Warn().
			Err(err).
			Str("conversation_id", conversationPublicID).
			Msg("failed to record token usage")
	}
}

func (h *ChatHandler) logStep(ctx context.Context, conversationID string, step turn.StepResult) {
	if !step.Failed() || step.Fatal() {
		return
	}
	h.logger.Warn().
		Err(step.Err).
		Str("step", step.Step).
		Str("conversation_id", conversationID).
		Msg("best-effort turn step failed")
	observability.AddSpanEvent(ctx, "turn_step_failed",
		attribute.String("step", step.Step),
		attribute.String("severity", string(step.Severity)),
	)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
