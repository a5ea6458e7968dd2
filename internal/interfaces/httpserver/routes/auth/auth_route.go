package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/handlers/authhandler"
)

// AuthRoute wires the credential endpoints. The proxy flows are public; the
// profile and logout endpoints require a bearer token.
type AuthRoute struct {
	authHandler *authhandler.AuthHandler
}

func NewAuthRoute(authHandler *authhandler.AuthHandler) *AuthRoute {
	return &AuthRoute{authHandler: authHandler}
}

// RegisterRouter registers the unauthenticated credential proxy routes.
func (authRoute *AuthRoute) RegisterRouter(router gin.IRouter) {
	authGroup := router.Group("/auth")
	authGroup.POST("/register", authRoute.authHandler.Register)
	authGroup.POST("/login", authRoute.authHandler.Login)
	authGroup.POST("/refresh", authRoute.authHandler.Refresh)
}

// RegisterProtectedRouter registers the profile and logout routes on an
// authenticated router.
func (authRoute *AuthRoute) RegisterProtectedRouter(router gin.IRouter) {
	authGroup := router.Group("/auth")
	authGroup.GET("/me",
		authRoute.authHandler.WithAppUserAuthChain(
			authRoute.authHandler.GetMe,
		)...,
	)
	authGroup.PATCH("/me",
		authRoute.authHandler.WithAppUserAuthChain(
			authRoute.authHandler.UpdateMe,
		)...,
	)
	authGroup.POST("/logout",
		authRoute.authHandler.WithAppUserAuthChain(
			authRoute.authHandler.Logout,
		)...,
	)
}
