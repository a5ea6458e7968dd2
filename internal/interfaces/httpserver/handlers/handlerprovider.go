package handlers

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/tahien663-cpu/chat-api/internal/application/audit"
	"github.com/tahien663-cpu/chat-api/internal/config"
	"github.com/tahien663-cpu/chat-api/internal/domain/conversation"
	"github.com/tahien663-cpu/chat-api/internal/domain/model"
	"github.com/tahien663-cpu/chat-api/internal/domain/tokenusage"
	"github.com/tahien663-cpu/chat-api/internal/domain/user"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/gotrue"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/inference"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers/authhandler"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers/chathandler"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers/conversationhandler"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers/imagehandler"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers/modelhandler"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers/usagehandler"
)

// ProvideAuthHandler resolves the token issuer from config.
func ProvideAuthHandler(
	gotrueClient *gotrue.Client,
	userService *user.Service,
	auditLogger *audit.AuthAuditLogger,
	cfg *config.Config,
	logger zerolog.Logger,
) *authhandler.AuthHandler {
	return authhandler.NewAuthHandler(gotrueClient, userService, auditLogger, cfg.Issuer, logger)
}

// ProvideChatHandler binds the completion service, model catalog, and usage
// recorder to the chat pipeline.
func ProvideChatHandler(
	conversationService *conversation.ConversationService,
	completionService *inference.CompletionService,
	catalogService *model.CatalogService,
	usageService *tokenusage.Service,
	cfg *config.Config,
	logger zerolog.Logger,
) *chathandler.ChatHandler {
	return chathandler.NewChatHandler(
		conversationService,
		completionService,
		catalogService,
		usageService,
		cfg.CompletionProviderName,
		logger,
	)
}

// ProvideImageHandler binds the prompt enhancer and image renderer to the
// image pipeline.
func ProvideImageHandler(
	conversationService *conversation.ConversationService,
	promptEnhancer *inference.PromptEnhancer,
	imageRenderer *inference.ImageRenderer,
	logger zerolog.Logger,
) *imagehandler.ImageHandler {
	return imagehandler.NewImageHandler(conversationService, promptEnhancer, imageRenderer, logger)
}

var HandlerProvider = wire.NewSet(
	ProvideAuthHandler,
	ProvideChatHandler,
	ProvideImageHandler,
	conversationhandler.NewConversationHandler,
	modelhandler.NewModelHandler,
	usagehandler.NewUsageHandler,
)
