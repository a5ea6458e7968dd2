package model

import (
	"context"
	"fmt"

	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
	"github.com/tahien663-cpu/chat-api/internal/utils/ptr"
)

// CatalogService resolves and lists the served models.
type CatalogService struct {
	repo Repository
}

func NewCatalogService(repo Repository) *CatalogService {
	return &CatalogService{repo: repo}
}

// ListEnabled returns the catalog entries clients may use.
func (s *CatalogService) ListEnabled(ctx context.Context) ([]*Model, error) {
	models, err := s.repo.FindByFilter(ctx, ModelFilter{Enabled: ptr.ToBool(true)}, nil)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list models")
	}
	return models, nil
}

// ResolveForTurn picks the model a chat turn runs on. An empty slug selects
// the catalog default; a slug outside the enabled catalog is a client error.
func (s *CatalogService) ResolveForTurn(ctx context.Context, slug string) (*Model, error) {
	if slug == "" {
		return s.defaultModel(ctx)
	}

	m, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to look up model")
	}
	if m == nil || !m.Enabled {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("unknown model: %s", slug), nil, "d8a41f26-9c73-4e05-b1a8-62f9e0c4d517")
	}
	return m, nil
}

// SeedEntry upserts one catalog row from the seed file.
func (s *CatalogService) SeedEntry(ctx context.Context, m *Model) error {
	if m.Slug == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"model seed entry missing slug", nil, "0f6b2d84-3a91-4c57-8e20-b74d5f1a9c38")
	}
	if err := s.repo.Upsert(ctx, m); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to seed model catalog")
	}
	return nil
}

func (s *CatalogService) defaultModel(ctx context.Context) (*Model, error) {
	models, err := s.repo.FindByFilter(ctx, ModelFilter{Enabled: ptr.ToBool(true), IsDefault: ptr.ToBool(true)}, nil)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to look up default model")
	}
	if len(models) > 0 {
		return models[0], nil
	}

	// No explicit default; fall back to any enabled model.
	models, err = s.repo.FindByFilter(ctx, ModelFilter{Enabled: ptr.ToBool(true)}, nil)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list models")
	}
	if len(models) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"model catalog is empty", nil, "72c5e9b0-1d48-4f3a-96d7-c80a4b2e6f91")
	}
	return models[0], nil
}
