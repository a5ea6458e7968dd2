package model

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers/authhandler"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers/modelhandler"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/responses"
	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

// ModelRoute serves the model catalog endpoint.
type ModelRoute struct {
	modelHandler *modelhandler.ModelHandler
	authHandler  *authhandler.AuthHandler
}

func NewModelRoute(
	modelHandler *modelhandler.ModelHandler,
	authHandler *authhandler.AuthHandler,
) *ModelRoute {
	return &ModelRoute{
		modelHandler: modelHandler,
		authHandler:  authHandler,
	}
}

func (modelRoute *ModelRoute) RegisterRouter(router gin.IRouter) {
	router.GET("/models",
		modelRoute.authHandler.WithAppUserAuthChain(
			modelRoute.GetModels,
		)...,
	)
}

// GetModels
// @Summary List selectable models
// @Description Returns the chat models currently enabled in the catalog, default first.
// @Tags Chat API
// @Security BearerAuth
// @Produce json
// @Success 200 {object} modelresponses.ModelResponseList "Enabled models"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Failure 500 {object} responses.ErrorResponse "Catalog lookup failed"
// @Router /v1/models [get]
func (modelRoute *ModelRoute) GetModels(reqCtx *gin.Context) {
	if _, ok := authhandler.GetUserFromContext(reqCtx); !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "4343e314-6de8-455a-ae05-e30ca03584c7")
		return
	}

	response, err := modelRoute.modelHandler.ListModels(reqCtx.Request.Context())
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to list models")
		return
	}

	reqCtx.JSON(http.StatusOK, response)
}
