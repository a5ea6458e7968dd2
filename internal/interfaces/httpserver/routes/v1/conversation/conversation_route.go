package conversation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers/authhandler"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers/conversationhandler"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/requests"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/responses"
	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

// ConversationRoute serves conversation listing, detail, history, and
// deletion.
type ConversationRoute struct {
	conversationHandler *conversationhandler.ConversationHandler
	authHandler         *authhandler.AuthHandler
}

func NewConversationRoute(
	conversationHandler *conversationhandler.ConversationHandler,
	authHandler *authhandler.AuthHandler,
) *ConversationRoute {
	return &ConversationRoute{
		conversationHandler: conversationHandler,
		authHandler:         authHandler,
	}
}

func (conversationRoute *ConversationRoute) RegisterRouter(router gin.IRouter) {
	conversationsGroup := router.Group("/conversations")
	conversationsGroup.GET("",
		conversationRoute.authHandler.WithAppUserAuthChain(
			conversationRoute.ListConversations,
		)...,
	)
	conversationsGroup.GET("/:conv_public_id",
		conversationRoute.authHandler.WithAppUserAuthChain(
			conversationRoute.GetConversation,
		)...,
	)
	conversationsGroup.DELETE("/:conv_public_id",
		conversationRoute.authHandler.WithAppUserAuthChain(
			conversationRoute.DeleteConversation,
		)...,
	)
	conversationsGroup.GET("/:conv_public_id/messages",
		conversationRoute.authHandler.WithAppUserAuthChain(
			conversationRoute.ListMessages,
		)...,
	)
}

// ListConversations
// @Summary List my conversations
// @Description Returns the caller's conversations, newest first, one cursor page at a time.
// @Tags Conversations API
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size, defaults to 20"
// @Param after query string false "Conversation public ID to page past"
// @Param order query string false "Cursor direction" Enums(asc, desc)
// @Success 200 {object} conversationresponses.ConversationListResponse "One page of conversations"
// @Failure 400 {object} responses.ErrorResponse "Invalid pagination parameters"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Router /v1/conversations [get]
func (conversationRoute *ConversationRoute) ListConversations(reqCtx *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "31585133-0977-472d-806f-2de78d7e6694")
		return
	}

	pagination, err := requests.GetCursorPaginationFromQuery(reqCtx, func(publicID string) (*uint, error) {
		return conversationRoute.conversationHandler.ResolveConversationCursor(reqCtx.Request.Context(), usr.ID, publicID)
	})
	if err != nil {
		responses.HandleError(reqCtx, err, "invalid pagination parameters")
		return
	}

	response, err := conversationRoute.conversationHandler.ListConversations(reqCtx.Request.Context(), usr.ID, pagination)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to list conversations")
		return
	}

	reqCtx.JSON(http.StatusOK, response)
}

// GetConversation
// @Summary Get one conversation
// @Description Returns one of the caller's conversations by public ID.
// @Tags Conversations API
// @Security BearerAuth
// @Produce json
// @Param conv_public_id path string true "Conversation public ID"
// @Success 200 {object} conversationresponses.ConversationResponse "The conversation"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Failure 404 {object} responses.ErrorResponse "Conversation not found"
// @Router /v1/conversations/{conv_public_id} [get]
func (conversationRoute *ConversationRoute) GetConversation(reqCtx *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "a0daf0c4-3e1f-4ae8-bb12-0d71332f13af")
		return
	}

	response, err := conversationRoute.conversationHandler.GetConversation(reqCtx.Request.Context(), usr.ID, reqCtx.Param("conv_public_id"))
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to get conversation")
		return
	}

	reqCtx.JSON(http.StatusOK, response)
}

// DeleteConversation
// @Summary Delete a conversation
// @Description Deletes one of the caller's conversations along with its messages.
// @Tags Conversations API
// @Security BearerAuth
// @Produce json
// @Param conv_public_id path string true "Conversation public ID"
// @Success 200 {object} conversationresponses.ConversationDeletedResponse "Deletion receipt"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Failure 404 {object} responses.ErrorResponse "Conversation not found"
// @Router /v1/conversations/{conv_public_id} [delete]
func (conversationRoute *ConversationRoute) DeleteConversation(reqCtx *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "d16005be-9670-49b7-a40f-d2f8605eb372")
		return
	}

	response, err := conversationRoute.conversationHandler.DeleteConversation(reqCtx.Request.Context(), usr.ID, reqCtx.Param("conv_public_id"))
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to delete conversation")
		return
	}

	reqCtx.JSON(http.StatusOK, response)
}

// ListMessages
// @Summary List a conversation's messages
// @Description Returns the message history of one of the caller's conversations, oldest first, one cursor page at a time.
// @Tags Conversations API
// @Security BearerAuth
// @Produce json
// @Param conv_public_id path string true "Conversation public ID"
// @Param limit query int false "Page size, defaults to 20"
// @Param after query string false "Message public ID to page past"
// @Param order query string false "Cursor direction" Enums(asc, desc)
// @Success 200 {object} conversationresponses.MessageListResponse "One page of messages"
// @Failure 400 {object} responses.ErrorResponse "Invalid pagination parameters"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Failure 404 {object} responses.ErrorResponse "Conversation not found"
// @Router /v1/conversations/{conv_public_id}/messages [get]
func (conversationRoute *ConversationRoute) ListMessages(reqCtx *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "756b044d-d8ab-4210-a662-64770ebdfe03")
		return
	}

	conversationID := reqCtx.Param("conv_public_id")
	pagination, err := requests.GetCursorPaginationFromQuery(reqCtx, func(publicID string) (*uint, error) {
		return conversationRoute.conversationHandler.ResolveMessageCursor(reqCtx.Request.Context(), usr.ID, conversationID, publicID)
	})
	if err != nil {
		responses.HandleError(reqCtx, err, "invalid pagination parameters")
		return
	}
	// History reads oldest-first unless the client asks otherwise.
	if reqCtx.Query("order") == "" {
		pagination.Order = "asc"
	}

	response, err := conversationRoute.conversationHandler.ListMessages(reqCtx.Request.Context(), usr.ID, conversationID, pagination)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to list messages")
		return
	}

	reqCtx.JSON(http.StatusOK, response)
}
