package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers/authhandler"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers/chathandler"
	chatrequests "github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/requests/chat"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/responses"
	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

// ChatRoute serves the chat turn endpoint.
type ChatRoute struct {
	chatHandler *chathandler.ChatHandler
	authHandler *authhandler.AuthHandler
}

func NewChatRoute(
	chatHandler *chathandler.ChatHandler,
	authHandler *authhandler.AuthHandler,
) *ChatRoute {
	return &ChatRoute{
		chatHandler: chatHandler,
		authHandler: authHandler,
	}
}

func (chatRoute *ChatRoute) RegisterRouter(router gin.IRouter) {
	router.POST("/chat",
		chatRoute.authHandler.WithAppUserAuthChain(
			chatRoute.PostChat,
		)...,
	)
}

// PostChat
// @Summary Submit a chat turn
// @Description Runs one conversational turn: resolves or creates the conversation, persists the user's latest message, requests a completion from the configured provider, persists the reply, and returns it.
// @Description Omit conversation_id to start a new conversation titled from the first message.
// @Tags Chat API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body chatrequests.TurnRequest true "Chat turn with full message history"
// @Success 200 {object} chatresponses.TurnResponse "Assistant reply with message and conversation IDs"
// @Failure 400 {object} responses.ErrorResponse "Invalid payload, empty messages, or unknown model"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Failure 404 {object} responses.ErrorResponse "Conversation not found"
// @Failure 502 {object} responses.ErrorResponse "Completion provider rejected the request"
// @Failure 503 {object} responses.ErrorResponse "Completion provider unreachable"
// @Router /v1/chat [post]
func (chatRoute *ChatRoute) PostChat(reqCtx *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "e7423617-3211-451d-8d99-4308a54de228")
		return
	}

	var request chatrequests.TurnRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "54157cb3-661d-4210-b13d-f3569a330097")
		return
	}

	response, err := chatRoute.chatHandler.SubmitChatTurn(reqCtx.Request.Context(), usr.ID, request)
	if err != nil {
		responses.HandleError(reqCtx, err, "chat turn failed")
		return
	}

	reqCtx.JSON(http.StatusOK, response)
}
