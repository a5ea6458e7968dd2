// Package responses renders the shared error envelope. Every handler and
// middleware funnels failures through here so clients always see the same
// shape: {"error": {"type", "message", "code"}}.
package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

// ErrorBody is the machine-readable part of an error response. Type is
// stable across releases; message is for humans; code pins the raise site.
type ErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorResponse wraps the error body under a single "error" key.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// HandleError maps a platform error to its HTTP status and renders the
// envelope. Errors that never passed through platformerrors render as
// internal with the fallback message.
func HandleError(reqCtx *gin.Context, err error, message string) {
	if pe, ok := platformerrors.AsPlatformError(err); ok {
		body := ErrorBody{
			Type:    string(pe.Type),
			Message: pe.Message,
			Code:    pe.Code,
		}
		if body.Message == "" {
			body.Message = message
		}
		reqCtx.AbortWithStatusJSON(platformerrors.ErrorTypeToHTTPStatus(pe.Type), ErrorResponse{Error: body})
		return
	}

	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: ErrorBody{
		Type:    string(platformerrors.ErrorTypeInternal),
		Message: message,
	}})
}

// HandleNewError raises a typed error at the handler layer and renders it.
// Route code uses this when the failure is detected at the HTTP boundary
// and there is no underlying error to wrap.
func HandleNewError(reqCtx *gin.Context, errType platformerrors.ErrorType, message string, code string) {
	reqCtx.AbortWithStatusJSON(platformerrors.ErrorTypeToHTTPStatus(errType), ErrorResponse{Error: ErrorBody{
		Type:    string(errType),
		Message: message,
		Code:    code,
	}})
}

// HandleErrorWithStatus renders the envelope with an explicit status,
// bypassing the type mapping. The auth middleware uses it because token
// parse failures are plain errors, not platform errors.
func HandleErrorWithStatus(reqCtx *gin.Context, status int, err error, message string) {
	body := ErrorBody{
		Type:    string(errorTypeForStatus(status)),
		Message: message,
	}
	if pe, ok := platformerrors.AsPlatformError(err); ok {
		body.Type = string(pe.Type)
		body.Code = pe.Code
		if pe.Message != "" {
			body.Message = pe.Message
		}
	}
	reqCtx.AbortWithStatusJSON(status, ErrorResponse{Error: body})
}

func errorTypeForStatus(status int) platformerrors.ErrorType {
	switch status {
	case http.StatusBadRequest:
		return platformerrors.ErrorTypeValidation
	case http.StatusUnauthorized:
		return platformerrors.ErrorTypeUnauthorized
	case http.StatusNotFound:
		return platformerrors.ErrorTypeNotFound
	case http.StatusBadGateway:
		return platformerrors.ErrorTypeExternal
	case http.StatusServiceUnavailable:
		return platformerrors.ErrorTypeUnavailable
	default:
		return platformerrors.ErrorTypeInternal
	}
}
