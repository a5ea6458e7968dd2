// Package authhandler proxies credential flows to the identity provider and
// keeps the local user row in step with it.
package authhandler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tahien663-cpu/chat-api/internal/application/audit"
	"github.com/tahien663-cpu/chat-api/internal/domain/user"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/gotrue"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/metrics"
	authrequests "github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/requests/auth"
	"github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/responses"
	authresponses "github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/responses/auth"
	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
	"github.com/tahien663-cpu/chat-api/internal/utils/ptr"
)

// AuthHandler serves the credential endpoints and the per-request app user
// resolution used by every protected route.
type AuthHandler struct {
	gotrueClient *gotrue.Client
	userService  *user.Service
	auditLogger  *audit.AuthAuditLogger
	issuer       string
	logger       zerolog.Logger
}

// NewAuthHandler creates a new auth handler. issuer is the token issuer the
// identity provider stamps into its JWTs; local users registered through the
// proxy endpoints are keyed under it.
func NewAuthHandler(
	gotrueClient *gotrue.Client,
	userService *user.Service,
	auditLogger *audit.AuthAuditLogger,
	issuer string,
	logger zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		gotrueClient: gotrueClient,
		userService:  userService,
		auditLogger:  auditLogger,
		issuer:       issuer,
		logger:       logger,
	}
}

// Register proxies sign-up to the identity provider and provisions the local
// user row.
// @Summary Register a new account
// @Description Proxies sign-up to the identity provider and provisions the local profile
// @Tags Authentication API
// @Accept json
// @Produce json
// @Param request body authrequests.RegisterRequest true "Registration payload"
// @Success 200 {object} authresponses.RegisterResponse "Account created"
// @Failure 400 {object} responses.ErrorResponse "Bad Request"
// @Failure 401 {object} responses.ErrorResponse "Rejected by identity provider"
// @Failure 502 {object} responses.ErrorResponse "Identity provider error"
// @Failure 503 {object} responses.ErrorResponse "Identity provider unreachable"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req authrequests.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "email and password are required", "c7d2f5a8-3b61-4e94-8c07-5a2d9f1e6b43")
		return
	}

	payload := gotrue.SignupPayload{Email: req.Email, Password: req.Password}
	if req.Name != "" {
		payload.Data = map[string]any{"name": req.Name}
	}

	result, err := h.gotrueClient.Signup(c.Request.Context(), payload)
	if err != nil {
		metrics.RecordAuthRequest("register", "failure")
		h.audit(c, audit.Entry{Email: req.Email, Action: audit.ActionRegister, Error: err})
		responses.HandleError(c, err, "registration failed")
		return
	}

	providerUser := result.User
	if providerUser == nil && result.Session != nil {
		providerUser = result.Session.User
	}

	var localUser *user.User
	if providerUser != nil && providerUser.ID != "" {
		localUser, err = h.userService.EnsureUser(c.Request.Context(), h.identityFromProviderUser(providerUser, req.Name))
		if err != nil {
			// The provider account exists; the row will be provisioned on
			// the first authenticated request instead.
			h.logger.Warn().Err(err).Msg("failed to provision local user at registration")
		}
	}

	metrics.RecordAuthRequest("register", "success")
	h.audit(c, audit.Entry{
		UserID:     localUserPublicID(localUser),
		Email:      req.Email,
		Action:     audit.ActionRegister,
		StatusCode: http.StatusOK,
	})

	c.JSON(http.StatusOK, &authresponses.RegisterResponse{
		User:                 authresponses.NewUserResponse(localUser),
		Session:              authresponses.NewSessionResponse(result.Session, localUser),
		RequiresConfirmation: result.Session == nil,
	})
}

// Login proxies the password grant and returns the provider token set.
// @Summary Log in with email and password
// @Description Proxies the password grant to the identity provider
// @Tags Authentication API
// @Accept json
// @Produce json
// @Param request body authrequests.LoginRequest true "Login payload"
// @Success 200 {object} authresponses.SessionResponse "Provider token set"
// @Failure 400 {object} responses.ErrorResponse "Bad Request"
// @Failure 401 {object} responses.ErrorResponse "Invalid credentials"
// @Failure 502 {object} responses.ErrorResponse "Identity provider error"
// @Failure 503 {object} responses.ErrorResponse "Identity provider unreachable"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req authrequests.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "email and password are required", "9e4b7a1c-6d28-4f53-b90e-2c8a5d3f7e16")
		return
	}

	session, err := h.gotrueClient.PasswordGrant(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		metrics.RecordAuthRequest("login", "failure")
		h.audit(c, audit.Entry{Email: req.Email, Action: audit.ActionLogin, Error: err})
		responses.HandleError(c, err, "login failed")
		return
	}

	localUser := h.ensureFromSession(c, session, "")

	metrics.RecordAuthRequest("login", "success")
	h.audit(c, audit.Entry{
		UserID:     localUserPublicID(localUser),
		Email:      req.Email,
		Action:     audit.ActionLogin,
		StatusCode: http.StatusOK,
	})

	c.JSON(http.StatusOK, authresponses.NewSessionResponse(session, localUser))
}

// Refresh exchanges a refresh token for a new provider token set.
// @Summary Refresh an access token
// @Description Proxies the refresh grant to the identity provider
// @Tags Authentication API
// @Accept json
// @Produce json
// @Param request body authrequests.RefreshRequest true "Refresh payload"
// @Success 200 {object} authresponses.SessionResponse "Provider token set"
// @Failure 400 {object} responses.ErrorResponse "Bad Request"
// @Failure 401 {object} responses.ErrorResponse "Invalid refresh token"
// @Failure 502 {object} responses.ErrorResponse "Identity provider error"
// @Failure 503 {object} responses.ErrorResponse "Identity provider unreachable"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req authrequests.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "refreshToken is required", "1f8c3d5e-7a92-4b06-8d41-6e0b9c2a5f73")
		return
	}

	session, err := h.gotrueClient.RefreshGrant(c.Request.Context(), req.RefreshToken)
	if err != nil {
		metrics.RecordAuthRequest("refresh", "failure")
		h.audit(c, audit.Entry{Action: audit.ActionRefresh, Error: err})
		responses.HandleError(c, err, "token refresh failed")
		return
	}

	localUser := h.ensureFromSession(c, session, "")

	metrics.RecordAuthRequest("refresh", "success")
	c.JSON(http.StatusOK, authresponses.NewSessionResponse(session, localUser))
}

// Logout revokes the caller's session at the identity provider.
// @Summary Log out
// @Description Revokes the current session at the identity provider
// @Tags Authentication API
// @Security BearerAuth
// @Produce json
// @Success 200 {object} authresponses.LogoutResponse "Session revoked"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Router /v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "4a9d2e6f-8c15-4b73-a0d8-7f3e1b5c9a24")
		return
	}

	if err := h.gotrueClient.Logout(c.Request.Context(), token); err != nil {
		// Revocation failures do not keep the client logged in; the access
		// token still expires on its own.
		h.logger.Warn().Err(err).Msg("identity provider logout failed")
	}

	usr, _ := GetUserFromContext(c)
	h.audit(c, audit.Entry{
		UserID:     localUserPublicID(usr),
		Action:     audit.ActionLogout,
		StatusCode: http.StatusOK,
	})

	c.JSON(http.StatusOK, &authresponses.LogoutResponse{Success: true})
}

// GetMe returns the caller's local profile.
// @Summary Get user profile
// @Description Returns the locally provisioned profile of the authenticated user
// @Tags Authentication API
// @Security BearerAuth
// @Produce json
// @Success 200 {object} authresponses.UserResponse "Profile"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Router /v1/auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	usr, ok := GetUserFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "e2b6f9a3-0d47-4c81-95ea-3f7c8d1b4e62")
		return
	}

	c.JSON(http.StatusOK, authresponses.NewUserResponse(usr))
}

// UpdateMe changes the caller's display name, the only locally mutable
// profile attribute.
// @Summary Update user profile
// @Description Updates the display name of the authenticated user
// @Tags Authentication API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body authrequests.UpdateMeRequest true "Profile update payload"
// @Success 200 {object} authresponses.UserResponse "Updated profile"
// @Failure 400 {object} responses.ErrorResponse "Invalid display name"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Router /v1/auth/me [patch]
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	usr, ok := GetUserFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "b5e8c2d7-4f96-4a30-8b1d-9c6a3e7f2d85")
		return
	}

	var req authrequests.UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "name is required", "7c4f1a9e-2b68-4d05-93c7-e8d5b0a6f314")
		return
	}

	updated, err := h.userService.UpdateDisplayName(c.Request.Context(), usr.ID, req.Name)
	if err != nil {
		h.audit(c, audit.Entry{UserID: usr.PublicID, Action: audit.ActionProfileUpdate, Error: err})
		responses.HandleError(c, mapProfileError(c, err), "profile update failed")
		return
	}

	h.audit(c, audit.Entry{
		UserID:     updated.PublicID,
		Email:      ptr.StringOr(updated.Email, ""),
		Action:     audit.ActionProfileUpdate,
		Payload:    map[string]string{"name": req.Name},
		StatusCode: http.StatusOK,
	})

	c.JSON(http.StatusOK, authresponses.NewUserResponse(updated))
}

// ensureFromSession provisions the local row for the session's subject. Best
// effort: login must not fail because the profile upsert did.
func (h *AuthHandler) ensureFromSession(c *gin.Context, session *gotrue.Session, fallbackName string) *user.User {
	if session == nil || session.User == nil || session.User.ID == "" {
		return nil
	}

	localUser, err := h.userService.EnsureUser(c.Request.Context(), h.identityFromProviderUser(session.User, fallbackName))
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to provision local user from session")
		return nil
	}
	return localUser
}

func (h *AuthHandler) identityFromProviderUser(providerUser *gotrue.User, fallbackName string) user.Identity {
	identity := user.Identity{
		Provider: "gotrue",
		Issuer:   h.issuer,
		Subject:  providerUser.ID,
	}
	if providerUser.Email != "" {
		identity.Email = ptr.ToString(providerUser.Email)
	}

	name := metadataString(providerUser.UserMetadata, "name", "full_name")
	if name == "" {
		name = fallbackName
	}
	if name != "" {
		identity.Name = ptr.ToString(name)
	}
	if picture := metadataString(providerUser.UserMetadata, "picture", "avatar_url"); picture != "" {
		identity.Picture = ptr.ToString(picture)
	}
	if username := metadataString(providerUser.UserMetadata, "user_name", "preferred_username"); username != "" {
		identity.Username = ptr.ToString(username)
	}

	return identity
}

func (h *AuthHandler) audit(c *gin.Context, entry audit.Entry) {
	if entry.IPAddress == "" {
		entry.IPAddress = c.ClientIP()
	}
	if entry.UserAgent == "" {
		entry.UserAgent = c.Request.UserAgent()
	}
	h.auditLogger.Log(c.Request.Context(), entry)
}

func mapProfileError(c *gin.Context, err error) error {
	_, isPlatformError := platformerrors.AsPlatformError(err)
	switch {
	case isPlatformError:
		return err
	case err == user.ErrInvalidDisplayName:
		return platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
			"display name must be 1 to 128 characters", err, "0d7e4b2a-9f53-4c16-88ad-5b1c6e3f9d72")
	case err == user.ErrUserNotFound:
		return platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeNotFound,
			"user not found", err, "6f2a8d4c-1e79-4b35-90c6-d3e7b5a1f482")
	default:
		return err
	}
}

func localUserPublicID(usr *user.User) string {
	if usr == nil {
		return ""
	}
	return usr.PublicID
}

func metadataString(metadata map[string]any, keys ...string) string {
	for _, key := range keys {
		if raw, ok := metadata[key]; ok {
			if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
