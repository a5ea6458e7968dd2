// Package gotrue wraps the external GoTrue-compatible identity provider.
// The service never stores credentials; every credential operation is
// forwarded here and the provider's verdict is passed back.
package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

// Client wraps interactions with the GoTrue token and user APIs.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient constructs a GoTrue client.
func NewClient(baseURL, serviceKey string, httpClient *http.Client, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: httpClient,
		logger:     logger,
	}
}

// User is the provider's user representation, passed through to callers.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	Role         string         `json:"role,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	CreatedAt    string         `json:"created_at,omitempty"`
	ConfirmedAt  string         `json:"confirmed_at,omitempty"`
}

// Session bundles token information returned by the provider.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// SignupPayload describes the register request body.
type SignupPayload struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

// SignupResult is either a full session or, when the provider requires
// email confirmation first, just the created user.
type SignupResult struct {
	Session *Session
	User    *User
}

// Signup registers a new user with the provider.
func (c *Client) Signup(ctx context.Context, payload SignupPayload) (*SignupResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeInternal,
			"failed to encode signup payload",
			err,
			"b3f8c2a1-6d94-4e57-8b0a-2c5e9f1d7a43",
		)
	}

	raw, err := c.post(ctx, "/signup", body, "")
	if err != nil {
		return nil, err
	}

	// A session comes back when the provider does not gate on email
	// confirmation; otherwise the body is the bare user object.
	var probe struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, c.malformedBody(ctx, "/signup", err)
	}

	if probe.AccessToken != "" {
		var session Session
		if err := json.Unmarshal(raw, &session); err != nil {
			return nil, c.malformedBody(ctx, "/signup", err)
		}
		return &SignupResult{Session: &session, User: session.User}, nil
	}

	var usr User
	if err := json.Unmarshal(raw, &usr); err != nil {
		return nil, c.malformedBody(ctx, "/signup", err)
	}
	return &SignupResult{User: &usr}, nil
}

// PasswordGrant exchanges email and password for a session.
func (c *Client) PasswordGrant(ctx context.Context, email, password string) (*Session, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeInternal,
			"failed to encode password grant payload",
			err,
			"9a4d7e21-3f86-4b0c-95d2-e8c1b6a0f572",
		)
	}

	raw, err := c.post(ctx, "/token?grant_type=password", body, "")
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, c.malformedBody(ctx, "/token", err)
	}
	return &session, nil
}

// RefreshGrant exchanges a refresh token for a new session.
func (c *Client) RefreshGrant(ctx context.Context, refreshToken string) (*Session, error) {
	body, err := json.Marshal(map[string]string{
		"refresh_token": refreshToken,
	})
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeInternal,
			"failed to encode refresh grant payload",
			err,
			"0c6b3f95-8a12-4d7e-b4c8-5f9e2a1d6b30",
		)
	}

	raw, err := c.post(ctx, "/token?grant_type=refresh_token", body, "")
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, c.malformedBody(ctx, "/token", err)
	}
	return &session, nil
}

// Logout revokes the session behind the given access token.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	_, err := c.post(ctx, "/logout", nil, accessToken)
	return err
}

// GetUser fetches the provider's user record for the given access token.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/user"), nil)
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeInternal,
			"failed to build user request",
			err,
			"7e2a9c40-1b5d-4f83-a6e0-c3d8b2f5e914",
		)
	}
	c.setHeaders(req, accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.unreachable(ctx, "/user", err)
	}
	defer resp.Body.Close()

	raw, err := c.readBody(ctx, resp, "/user")
	if err != nil {
		return nil, err
	}

	var usr User
	if err := json.Unmarshal(raw, &usr); err != nil {
		return nil, c.malformedBody(ctx, "/user", err)
	}
	return &usr, nil
}

func (c *Client) post(ctx context.Context, path string, body []byte, accessToken string) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), reader)
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeInternal,
			"failed to build identity provider request",
			err,
			"4f1d8b62-9c37-4a05-bd29-6e0a3c8f5d71",
		)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req, accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.unreachable(ctx, path, err)
	}
	defer resp.Body.Close()

	return c.readBody(ctx, resp, path)
}

func (c *Client) setHeaders(req *http.Request, accessToken string) {
	if c.serviceKey != "" {
		req.Header.Set("apikey", c.serviceKey)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
}

func (c *Client) readBody(ctx context.Context, resp *http.Response, path string) (json.RawMessage, error) {
	payload, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, c.malformedBody(ctx, path, err)
	}

	if resp.StatusCode < 300 {
		return payload, nil
	}

	message := providerErrorMessage(payload)
	c.logger.Debug().
		Int("status", resp.StatusCode).
		Str("path", path).
		Str("message", message).
		Msg("identity provider rejected request")

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusUnprocessableEntity, http.StatusTooManyRequests:
		// The provider evaluated the request and said no. Its message is
		// the user-facing one.
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUnauthorized,
			message,
			nil,
			"d5e9a3c7-2f81-4b64-90da-8c6b1e4f7a25",
		)
	default:
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			fmt.Sprintf("identity provider error: status %d", resp.StatusCode),
			nil,
			"1b7f4d93-6e25-4c08-ab51-f2d9c8e3a640",
		)
	}
}

func (c *Client) unreachable(ctx context.Context, path string, err error) error {
	return platformerrors.NewError(
		ctx,
		platformerrors.LayerInfrastructure,
		platformerrors.ErrorTypeUnavailable,
		"identity provider unreachable",
		err,
		"8d3c5f17-4a92-4e6b-bc08-7e1f9a2d5c84",
	)
}

func (c *Client) malformedBody(ctx context.Context, path string, err error) error {
	return platformerrors.NewError(
		ctx,
		platformerrors.LayerInfrastructure,
		platformerrors.ErrorTypeExternal,
		fmt.Sprintf("identity provider returned malformed body for %s", path),
		err,
		"3a8e1c59-7d24-4f06-92bd-0c5f6e8a1d37",
	)
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

// providerErrorMessage pulls the human message out of the provider's error
// body, which uses either {"msg": ...} or OAuth-style
// {"error_description": ...} depending on the endpoint.
func providerErrorMessage(payload []byte) string {
	var body struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return "authentication rejected by identity provider"
	}
	for _, candidate := range []string{body.Msg, body.Message, body.ErrorDescription, body.Error} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return "authentication rejected by identity provider"
}
