package domain

import (
	"github.com/google/wire"

	"github.com/tahien663-cpu/chat-api/internal/domain/conversation"
	"github.com/tahien663-cpu/chat-api/internal/domain/model"
	"github.com/tahien663-cpu/chat-api/internal/domain/tokenusage"
	"github.com/tahien663-cpu/chat-api/internal/domain/user"
)

// ServiceProvider provides all domain services
var ServiceProvider = wire.NewSet(
	// Conversation domain
	conversation.NewConversationService,

	// Model catalog
	model.NewCatalogService,

	// Token usage
	tokenusage.NewService,

	// User domain
	user.NewService,
)
