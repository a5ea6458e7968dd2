package inference

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tahien663-cpu/chat-api/internal/config"
	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

// ImageRenderer builds deterministic render URLs for the configured
// image backend and verifies them with a HEAD probe. The prompt is
// carried in the URL path; image bytes are never fetched by this
// service.
type ImageRenderer struct {
	baseURL     string
	width       int
	height      int
	model       string
	extraParams string
	httpClient  *http.Client
	logger      zerolog.Logger
}

func NewImageRenderer(cfg *config.Config, logger zerolog.Logger) *ImageRenderer {
	timeout := cfg.ImageProbeTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ImageRenderer{
		baseURL:     strings.TrimRight(strings.TrimSpace(cfg.ImageBaseURL), "/"),
		width:       cfg.ImageWidth,
		height:      cfg.ImageHeight,
		model:       strings.TrimSpace(cfg.ImageModel),
		extraParams: strings.Trim(strings.TrimSpace(cfg.ImageExtraParams), "&"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With().Str("component", "image-renderer").Logger(),
	}
}

// BuildURL returns the render URL for prompt. The same prompt and
// configuration always produce the same URL; no seed or timestamp is
// mixed in.
func (r *ImageRenderer) BuildURL(prompt string) string {
	query := fmt.Sprintf("width=%d&height=%d", r.width, r.height)
	if r.extraParams != "" {
		query += "&" + r.extraParams
	}
	if r.model != "" {
		query += "&model=" + url.QueryEscape(r.model)
	}
	return r.baseURL + "/" + url.PathEscape(prompt) + "?" + query
}

// Probe checks that the renderer will serve imageURL. A response outside
// the 2xx range means the renderer evaluated and rejected the prompt; a
// transport failure means the check never completed. The two outcomes
// classify differently so callers can report them apart.
func (r *ImageRenderer) Probe(ctx context.Context, imageURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, imageURL, nil)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeInternal,
			"build image probe request", err, "b3f91c62-8d04-4ae7-95b8-1f6c2d7e0a49")
	}

	started := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUnavailable,
			"could not verify image availability", err, "7a25e8d0-3c91-4b6f-a1d4-9e58c07b2f36")
	}
	defer resp.Body.Close()

	r.logger.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(started)).
		Msg("image probe finished")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			fmt.Sprintf("image renderer rejected the prompt: status %d", resp.StatusCode), nil, "e09d4b73-61f8-4c25-ba07-3d8a92c5e614")
	}

	return nil
}
