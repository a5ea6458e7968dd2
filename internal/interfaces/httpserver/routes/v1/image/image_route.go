package image

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers/authhandler"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers/imagehandler"
	imagerequests "github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/requests/image"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/responses"
	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

// ImageRoute serves the image turn endpoint.
type ImageRoute struct {
	imageHandler *imagehandler.ImageHandler
	authHandler  *authhandler.AuthHandler
}

func NewImageRoute(
	imageHandler *imagehandler.ImageHandler,
	authHandler *authhandler.AuthHandler,
) *ImageRoute {
	return &ImageRoute{
		imageHandler: imageHandler,
		authHandler:  authHandler,
	}
}

func (imageRoute *ImageRoute) RegisterRouter(router gin.IRouter) {
	router.POST("/images",
		imageRoute.authHandler.WithAppUserAuthChain(
			imageRoute.PostImage,
		)...,
	)
}

// PostImage
// @Summary Submit an image turn
// @Description Runs one image generation turn: persists the prompt, enhances it, builds the render URL, verifies the renderer answers for it, and persists the reply embedding the image.
// @Description Omit conversation_id to start a new conversation titled from the prompt.
// @Tags Chat API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body imagerequests.ImageTurnRequest true "Image prompt, at most 500 characters"
// @Success 200 {object} imageresponses.ImageTurnResponse "Reply embedding the image URL"
// @Failure 400 {object} responses.ErrorResponse "Blank or oversized prompt"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Failure 404 {object} responses.ErrorResponse "Conversation not found"
// @Failure 502 {object} responses.ErrorResponse "Image renderer rejected the prompt"
// @Failure 503 {object} responses.ErrorResponse "Image renderer unreachable"
// @Router /v1/images [post]
func (imageRoute *ImageRoute) PostImage(reqCtx *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "97f7f0ba-3ebd-4e0d-8e4f-f16a751ea076")
		return
	}

	var request imagerequests.ImageTurnRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "61c25a44-674f-44d0-9910-fc7cae7da093")
		return
	}

	response, err := imageRoute.imageHandler.SubmitImageTurn(reqCtx.Request.Context(), usr.ID, request)
	if err != nil {
		responses.HandleError(reqCtx, err, "image turn failed")
		return
	}

	reqCtx.JSON(http.StatusOK, response)
}
