// Package imagehandler drives the image turn pipeline: validate the prompt,
// resolve the conversation, capture the prompt, enhance it, build the render
// URL, verify it answers, and persist the reply.
package imagehandler

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tahien663-cpu/chat-api/internal/domain/conversation"
	"github.com/tahien663-cpu/chat-api/internal/domain/turn"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/inference"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/metrics"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/observability"
	imagerequests "github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/requests/image"
	imageresponses "github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/responses/image"
	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

// PromptEnhancer decorates a prompt for the renderer. It is total: on any
// failure it returns the original prompt, so the pipeline never branches
// on it.
type PromptEnhancer interface {
	EnhancePrompt(ctx context.Context, prompt string) string
}

// ImageRenderer addresses images by URL and verifies them without fetching
// image bytes.
type ImageRenderer interface {
	BuildURL(prompt string) string
	Probe(ctx context.Context, imageURL string) error
}

var _ PromptEnhancer = (*inference.PromptEnhancer)(nil)
var _ ImageRenderer = (*inference.ImageRenderer)(nil)

// ImageHandler handles image turns.
type ImageHandler struct {
	conversationService *conversation.ConversationService
	promptEnhancer      PromptEnhancer
	imageRenderer       ImageRenderer
	logger              zerolog.Logger
}

// NewImageHandler creates a new image handler.
func NewImageHandler(
	conversationService *conversation.ConversationService,
	promptEnhancer PromptEnhancer,
	imageRenderer ImageRenderer,
	logger zerolog.Logger,
) *ImageHandler {
	return &ImageHandler{
		conversationService: conversationService,
		promptEnhancer:      promptEnhancer,
		imageRenderer:       imageRenderer,
		logger:              logger,
	}
}

// SubmitImageTurn runs one image turn. The verbatim prompt is captured
// before any external call so a renderer failure cannot lose it; the probe
// aborts the turn before an AI message exists; the reply persist is the
// only write that aborts after the probe.
func (h *ImageHandler) SubmitImageTurn(
	ctx context.Context,
	userID uint,
	request imagerequests.ImageTurnRequest,
) (*imageresponses.ImageTurnResponse, error) {
	ctx, span := observability.StartSpan(ctx, "chat-api", "ImageHandler.SubmitImageTurn")
	defer span.End()

	startTime := time.Now()

	observability.AddSpanAttributes(ctx,
		attribute.Int("user.id", int(userID)),
		attribute.Int("image.prompt_runes", utf8.RuneCountInString(request.Prompt)),
	)

	if err := h.conversationService.ValidateImagePrompt(ctx, request.Prompt); err != nil {
		observability.RecordError(ctx, err)
		return nil, err
	}

	// The service's errors are already classified and phrased for the
	// client; wrapping here would rewrite "conversation not found".
	conv, created, err := h.conversationService.ResolveForTurn(
		ctx, userID, request.ConversationID, conversation.TitleFromImagePrompt(request.Prompt))
	if err != nil {
		observability.RecordError(ctx, err)
		return nil, err
	}
	observability.AddSpanAttributes(ctx,
		attribute.String("conversation.id", conv.PublicID),
		attribute.Bool("conversation.created", created),
	)

	// Capture the verbatim prompt before anything external runs.
	_, persistErr := h.conversationService.AppendMessage(ctx, conv, conversation.RoleUser, request.Prompt, nil)
	h.logStep(ctx, conv.PublicID, turn.BestEffort("persist_prompt", persistErr))

	observability.AddSpanEvent(ctx, "enhancing_prompt")
	enhancedPrompt := h.promptEnhancer.EnhancePrompt(ctx, request.Prompt)
	observability.AddSpanAttributes(ctx,
		attribute.Bool("image.prompt_enhanced", enhancedPrompt != request.Prompt),
	)

	imageURL := h.imageRenderer.BuildURL(enhancedPrompt)

	observability.AddSpanEvent(ctx, "probing_image_url")
	probeStart := time.Now()
	if err := h.imageRenderer.Probe(ctx, imageURL); err != nil {
		metrics.RecordImageProbe(probeOutcome(err))
		observability.RecordError(ctx, err)
		observability.AddSpanAttributes(ctx, attribute.String("image.probe_status", "failed"))
		return nil, err
	}
	metrics.RecordImageProbe("ok")
	observability.AddSpanAttributes(ctx,
		attribute.Float64("image.probe_duration_ms", float64(time.Since(probeStart).Milliseconds())),
		attribute.String("image.probe_status", "ok"),
	)

	metadata := &conversation.MessageMetadata{
		ImageURL:       imageURL,
		EnhancedPrompt: enhancedPrompt,
		OriginalPrompt: request.Prompt,
	}
	aiMessage, err := h.conversationService.AppendMessage(ctx, conv, conversation.RoleAI, imageReply(imageURL, enhancedPrompt), metadata)
	if step := turn.Critical("persist_ai_message", err); step.Fatal() {
		observability.RecordError(ctx, step.Err)
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, step.Err, "failed to persist reply")
	}

	// The summary quotes what the user asked for, not the decorated prompt.
	h.logStep(ctx, conv.PublicID, turn.BestEffort("update_summary",
		h.conversationService.UpdateSummary(ctx, conv, request.Prompt)))

	observability.AddSpanAttributes(ctx,
		attribute.Float64("turn.total_duration_ms", float64(time.Since(startTime).Milliseconds())),
	)
	observability.SetSpanStatus(ctx, codes.Ok, "image turn completed")

	return imageresponses.NewImageTurnResponse(aiMessage, conv), nil
}

// imageReply renders the persisted message body: a markdown embed clients
// display directly, annotated with the prompt the renderer actually saw.
func imageReply(imageURL, enhancedPrompt string) string {
	return fmt.Sprintf("![Generated image](%s)\n\n*Prompt: %s*", imageURL, enhancedPrompt)
}

// probeOutcome maps a probe failure to its metric label. Rejected means the
// renderer answered and said no; unreachable means the check never completed.
func probeOutcome(err error) string {
	switch platformerrors.TypeOf(err) {
	case platformerrors.ErrorTypeExternal:
		return "rejected"
	case platformerrors.ErrorTypeUnavailable:
		return "unreachable"
	default:
		return "error"
	}
}

func (h *ImageHandler) logStep(ctx context.Context, conversationID string, step turn.StepResult) {
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
