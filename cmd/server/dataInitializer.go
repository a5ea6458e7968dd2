package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/tahien663-cpu/chat-api/internal/config"
	"github.com/tahien663-cpu/chat-api/internal/domain/model"
)

// DataInitializer installs seed data before the server starts taking
// traffic. Rows absent from the seed file are left alone so operator
// edits survive restarts.
type DataInitializer struct {
	catalogService *model.CatalogService
	logger         zerolog.Logger
}

func (d *DataInitializer) Install(ctx context.Context) error {
	cfg := config.GetGlobal()
	if cfg == nil || !cfg.ModelSeedEnabled {
		return nil
	}

	for _, seed := range cfg.ModelSeeds {
		entry := &model.Model{
			Slug:          seed.Slug,
			DisplayName:   seed.DisplayName,
			Description:   seed.Description,
			ContextLength: seed.ContextLength,
			Capabilities:  seed.Capabilities,
			Enabled:       seed.Enabled,
			IsDefault:     seed.Default,
		}
		if err := d.catalogService.SeedEntry(ctx, entry); err != nil {
			return err
		}
		d.logger.Info().Str("model", seed.Slug).Msg("seeded model catalog entry")
	}

	return nil
}
