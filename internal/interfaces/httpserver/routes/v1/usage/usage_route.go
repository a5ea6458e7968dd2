package usage

import (
	"github.com/gin-gonic/gin"

	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers/authhandler"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers/usagehandler"
)

// UsageRoute serves the token usage endpoint.
type UsageRoute struct {
	usageHandler *usagehandler.UsageHandler
	authHandler  *authhandler.AuthHandler
}

func NewUsageRoute(
	usageHandler *usagehandler.UsageHandler,
	authHandler *authhandler.AuthHandler,
) *UsageRoute {
	return &UsageRoute{
		usageHandler: usageHandler,
		authHandler:  authHandler,
	}
}

func (usageRoute *UsageRoute) RegisterRouter(router gin.IRouter) {
	router.GET("/usage",
		usageRoute.authHandler.WithAppUserAuthChain(
			usageRoute.usageHandler.GetMyUsage,
		)...,
	)
}
