// Package chat wraps the completion provider's OpenAI-compatible HTTP API.
package chat

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"

	"github.com/sashabaranov/go-openai"
	"resty.dev/v3"
)

// ChatCompletionClient issues single-shot chat completion requests. The
// pipeline returns whole replies, so there is no streaming path.
type ChatCompletionClient struct {
	client  *resty.Client
	baseURL string
	name    string
}

func NewChatCompletionClient(client *resty.Client, name, baseURL string) *ChatCompletionClient {
	return &ChatCompletionClient{
		client:  client,
		baseURL: normalizeBaseURL(baseURL),
		name:    name,
	}
}

// CreateChatCompletion posts the request and returns the parsed response.
// Transport failures classify as unavailable, non-success statuses and
// unparseable bodies as external, so callers can tell "provider said no"
// from "provider never answered".
func (c *ChatCompletionClient) CreateChatCompletion(ctx context.Context, apiKey string, request openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	var respBody openai.ChatCompletionResponse
	resp, err := c.prepareRequest(ctx, apiKey).
		SetBody(request).
		SetResult(&respBody).
		Post(c.endpoint("/chat/completions"))
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUnavailable,
			fmt.Sprintf("completion provider %s unreachable", c.name), err, "7d0a9c41-2b3f-4e58-9c6d-f013a2e84b77")
	}
	if resp.IsError() {
		return nil, c.errorFromResponse(ctx, resp, "completion request failed")
	}
	if len(respBody.Choices) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"completion response contained no choices", nil, "3e92f6b8-51c4-4aef-8d07-6ba1c59d20e4")
	}
	return &respBody, nil
}

func (c *ChatCompletionClient) prepareRequest(ctx context.Context, apiKey string) *resty.Request {
	req := c.client.R().SetContext(ctx)
	req.SetHeader("Content-Type", "application/json")
	if strings.TrimSpace(apiKey) != "" {
		req.SetHeader("Authorization", fmt.Sprintf("Bearer %s", apiKey))
	}
	return req
}

func (c *ChatCompletionClient) endpoint(path string) string {
	if path == "" {
		return c.baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if c.baseURL == "" {
		return path
	}
	if strings.HasPrefix(path, "/") {
		return c.baseURL + path
	}
	return c.baseURL + "/" + path
}

func (c *ChatCompletionClient) errorFromResponse(ctx context.Context, resp *resty.Response, message string) error {
	if resp == nil || resp.RawResponse == nil || resp.RawResponse.Body == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, message, nil, "f4c81d29-7a60-4b3e-b2d5-08c9e16a4f32")
	}
	defer resp.RawResponse.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.RawResponse.Body, 2048))
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, message, nil, "9b5e3a70-c412-4d86-a1f9-5d20b78c6e13")
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			fmt.Sprintf("%s: status %d", message, resp.StatusCode()), nil, "61d4f8a2-e95b-4c07-bd38-2a7f90c15e46")
	}
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
		fmt.Sprintf("%s: status %d: %s", message, resp.StatusCode(), trimmed), nil, "ae27c043-6f18-49d5-90e2-cb46a31d87f9")
}

func (c *ChatCompletionClient) BaseURL() string {
	return c.baseURL
}

func normalizeBaseURL(baseURL string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/")
}
