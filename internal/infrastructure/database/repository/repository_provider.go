package repository

import (
	"github.com/tahien663-cpu/chat-api/internal/domain/tokenusage"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/database/repository/conversationrepo"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/database/repository/modelrepo"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/database/repository/userrepo"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/persistence"

	"github.com/google/wire"
)

var RepositoryProvider = wire.NewSet(
	conversationrepo.NewConversationGormRepository,
	conversationrepo.NewMessageGormRepository,
	modelrepo.NewModelCatalogGormRepository,
	userrepo.NewUserGormRepository,
	persistence.NewTokenUsageRepository,
	wire.Bind(new(tokenusage.Repository), new(*persistence.TokenUsageRepository)),
)
