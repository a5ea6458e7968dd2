package routes

import (
	"github.com/google/wire"

	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/routes/auth"
	v1 "github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/routes/v1"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/routes/v1/chat"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/routes/v1/conversation"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/routes/v1/image"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/routes/v1/model"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/routes/v1/usage"
)

var RouteProvider = wire.NewSet(
	auth.NewAuthRoute,
	v1.NewV1Route,
	chat.NewChatRoute,
	image.NewImageRoute,
	conversation.NewConversationRoute,
	model.NewModelRoute,
	usage.NewUsageRoute,
)
