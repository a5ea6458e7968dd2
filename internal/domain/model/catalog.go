// Package model holds the catalog of completion models this API serves.
// The catalog is seeded from a config file at startup; clients list it and
// pick a model per chat turn.
package model

import (
	"context"
	"time"

	"github.com/tahien663-cpu/chat-api/internal/domain/query"
)

// Model is one catalog entry.
type Model struct {
	ID            uint      `json:"-"`
	Slug          string    `json:"id"` // provider slug, e.g. "openai/gpt-4o-mini"
	DisplayName   string    `json:"display_name"`
	Description   string    `json:"description,omitempty"`
	ContextLength int       `json:"context_length"`
	Capabilities  []string  `json:"capabilities"`
	Enabled       bool      `json:"enabled"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasCapability reports whether the model advertises the capability tag.
func (m *Model) HasCapability(capability string) bool {
	for _, c := range m.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

type ModelFilter struct {
	Slug      *string
	Enabled   *bool
	IsDefault *bool
}

type Repository interface {
	// Upsert inserts or updates a catalog entry keyed by slug.
	Upsert(ctx context.Context, model *Model) error
	// FindBySlug returns (nil, nil) when no row matches.
	FindBySlug(ctx context.Context, slug string) (*Model, error)
	FindByFilter(ctx context.Context, filter ModelFilter, pagination *query.Pagination) ([]*Model, error)
	Count(ctx context.Context, filter ModelFilter) (int64, error)
}
