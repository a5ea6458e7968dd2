// Package httpclients builds the resty clients used for outbound provider
// calls, with request logging wired in once so individual services do not
// repeat it.
package httpclients

import (
	"context"
	"time"

	"github.com/tahien663-cpu/chat-api/internal/infrastructure/logger"

	"resty.dev/v3"
)

type startedAtKey struct{}

// NewClient builds a resty client that logs every outbound request with
// method, path, status, and latency under the given client name. Bodies are
// not logged; provider payloads carry user content.
func NewClient(clientName string) *resty.Client {
	client := resty.New()

	client.AddRequestMiddleware(func(c *resty.Client, r *resty.Request) error {
		r.SetContext(context.WithValue(r.Context(), startedAtKey{}, time.Now()))
		return nil
	})

	client.AddResponseMiddleware(func(c *resty.Client, r *resty.Response) error {
		log := logger.GetLogger()

		var latency time.Duration
		if startedAt, ok := r.Request.Context().Value(startedAtKey{}).(time.Time); ok {
			latency = time.Since(startedAt)
		}

		log.Debug().
			Str("client", clientName).
			Str("method", r.Request.RawRequest.Method).
			Str("path", r.Request.RawRequest.URL.Path).
			Int("status", r.StatusCode()).
			Dur("latency", latency).
			Msg("outbound HTTP request")
		return nil
	})

	return client
}
