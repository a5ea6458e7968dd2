package authhandler

import (
	"github.com/gin-gonic/gin"

	"github.com/tahien663-cpu/chat-api/internal/domain/user"
	middleware "github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/middlewares"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/responses"
	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
	"github.com/tahien663-cpu/chat-api/internal/utils/ptr"
)

const appUserContextKey = "app_user"

// GetUserFromContext returns the ensured application user from the request context.
func GetUserFromContext(c *gin.Context) (*user.User, bool) {
	val, ok := c.Get(appUserContextKey)
	if !ok || val == nil {
		return nil, false
	}
	usr, ok := val.(*user.User)
	return usr, ok && usr != nil
}

// WithAppUserAuthChain prepends the app user resolution to the given
// handlers. Every protected route runs through it so handlers can assume a
// local user row exists.
func (h *AuthHandler) WithAppUserAuthChain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{h.ensureAppUser()}
	return append(chain, handlers...)
}

// ensureAppUser upserts the local user row for the authenticated principal.
// Auto-provisioning on first contact means no separate signup step is needed
// for tokens minted outside the proxy endpoints.
func (h *AuthHandler) ensureAppUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.userService == nil {
			c.Next()
			return
		}

		if _, ok := GetUserFromContext(c); ok {
			c.Next()
			return
		}

		principal, ok := middleware.PrincipalFromContext(c)
		if !ok {
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "3fd82a61-7c49-4e05-b3a8-d196c5e7f024")
			c.Abort()
			return
		}

		issuer := principal.Issuer
		if issuer == "" {
			issuer = principal.Credentials["issuer"]
		}

		identity := user.Identity{
			Provider: string(principal.AuthMethod),
			Issuer:   issuer,
			Subject:  principal.Subject,
		}
		if identity.Issuer == "" || identity.Subject == "" {
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "invalid user identity", "a84f06d9-2b53-4c17-9e6a-50d8b3c2f791")
			c.Abort()
			return
		}

		if principal.Username != "" {
			identity.Username = ptr.ToString(principal.Username)
		}
		if principal.Email != "" {
			identity.Email = ptr.ToString(principal.Email)
		}
		if principal.Name != "" {
			identity.Name = ptr.ToString(principal.Name)
		}
		if picture := principal.Credentials["picture"]; picture != "" {
			identity.Picture = ptr.ToString(picture)
		}

		usr, err := h.userService.EnsureUser(c.Request.Context(), identity)
		if err != nil {
			h.logger.Error().Err(err).Msg("failed to ensure user from principal")
			responses.HandleNewError(c, platformerrors.ErrorTypeInternal, "unable to resolve user identity", "59c17b4e-8d20-4f63-a5b9-e2d794c0a836")
			c.Abort()
			return
		}

		c.Set(appUserContextKey, usr)
		c.Next()
	}
}
