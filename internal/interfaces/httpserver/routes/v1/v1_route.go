package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tahien663-cpu/chat-api/internal/config"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/routes/auth"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/routes/v1/chat"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/routes/v1/conversation"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/routes/v1/image"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/routes/v1/model"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/routes/v1/usage"
)

// V1Route aggregates every authenticated /v1 route.
type V1Route struct {
	auth         *auth.AuthRoute
	chat         *chat.ChatRoute
	image        *image.ImageRoute
	conversation *conversation.ConversationRoute
	model        *model.ModelRoute
	usage        *usage.UsageRoute
}

func NewV1Route(
	auth *auth.AuthRoute,
	chat *chat.ChatRoute,
	image *image.ImageRoute,
	conversation *conversation.ConversationRoute,
	model *model.ModelRoute,
	usage *usage.UsageRoute,
) *V1Route {
	return &V1Route{
		auth,
		chat,
		image,
		conversation,
		model,
		usage,
	}
}

// RegisterRouter mounts the /v1 group on an authenticated router.
func (v1Route *V1Route) RegisterRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Router.GET("/version", GetVersion)

	v1Route.auth.RegisterProtectedRouter(v1Router)
	v1Route.chat.RegisterRouter(v1Router)
	v1Route.image.RegisterRouter(v1Router)
	v1Route.conversation.RegisterRouter(v1Router)
	v1Route.model.RegisterRouter(v1Router)
	v1Route.usage.RegisterRouter(v1Router)
}

// GetVersion godoc
// @Summary Get API build version
// @Description Returns the current build version of the API server and environment reload timestamp.
// @Tags Server API
// @Produce json
// @Success 200 {object} map[string]string "Version information"
// @Router /v1/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":         config.Version,
		"env_reloaded_at": config.GetEnvReloadedAt().Format("2006-01-02T15:04:05Z07:00"),
	})
}
