package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tahien663-cpu/chat-api/internal/domain"
	authvalidator "github.com/tahien663-cpu/chat-api/internal/infrastructure/auth"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/responses"
)

const principalContextKey = "principal"

// AuthMiddleware validates bearer tokens issued by the identity provider.
// Requests without a parseable Authorization header and requests whose token
// fails validation both abort with 401; the two cases are logged apart.
func AuthMiddleware(validator *authvalidator.TokenValidator, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok, err := principalFromJWT(c, validator)
		if err != nil && !errors.Is(err, http.ErrNoCookie) {
			logger.Warn().
				Err(err).
				Str("path", c.FullPath()).
				Msg("jwt validation failed")
			responses.HandleErrorWithStatus(c, http.StatusUnauthorized, err, "unauthorized")
			return
		}

		if !ok {
			logger.Warn().
				Str("path", c.FullPath()).
				Str("method", c.Request.Method).
				Msg("unauthenticated request")
			responses.HandleErrorWithStatus(c, http.StatusUnauthorized, errors.New("authentication required"), "unauthorized")
			return
		}

		setPrincipal(c, principal)
		c.Next()
	}
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(c *gin.Context) (domain.Principal, bool) {
	val, ok := c.Get(principalContextKey)
	if !ok {
		return domain.Principal{}, false
	}
	principal, ok := val.(domain.Principal)
	return principal, ok
}

func setPrincipal(c *gin.Context, principal domain.Principal) {
	c.Set(principalContextKey, principal)
	// expose commonly-used identity values for downstream handlers
	c.Set("user_id", principal.ID)
	c.Set("user_email", principal.Email)
	c.Request.Header.Set("X-Principal-Id", principal.ID)
	c.Request.Header.Set("X-Auth-Method", string(principal.AuthMethod))
}

// principalFromJWT reports http.ErrNoCookie when no usable bearer token is
// present, so callers can separate "absent" from "invalid".
func principalFromJWT(c *gin.Context, validator *authvalidator.TokenValidator) (domain.Principal, bool, error) {
	if validator == nil {
		return domain.Principal{}, false, http.ErrNoCookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return domain.Principal{}, false, http.ErrNoCookie
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return domain.Principal{}, false, http.ErrNoCookie
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return domain.Principal{}, false, http.ErrNoCookie
	}

	claims, err := validator.Validate(c.Request.Context(), token)
	if err != nil {
		return domain.Principal{}, false, err
	}

	credentials := map[string]string{
		"token_id": claims.TokenID,
	}
	if claims.Issuer != "" {
		credentials["issuer"] = claims.Issuer
	}
	if claims.Picture != "" {
		credentials["picture"] = claims.Picture
	}
	if claims.SessionID != "" {
		credentials["session_id"] = claims.SessionID
	}

	return domain.Principal{
		ID:          claims.Subject,
		AuthMethod:  domain.AuthMethodJWT,
		Subject:     claims.Subject,
		Issuer:      claims.Issuer,
		Username:    claims.Username,
		Email:       claims.Email,
		Name:        claims.Name,
		Credentials: credentials,
	}, true, nil
}
