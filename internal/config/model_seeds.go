package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/tahien663-cpu/chat-api/internal/infrastructure/logger"
)

const DefaultModelSeedFile = "config/models.yml"

var seedValidator = validator.New(validator.WithRequiredStructEnabled())

// ModelSeedEntry describes one catalog row seeded at startup.
type ModelSeedEntry struct {
	Slug          string
	DisplayName   string
	Description   string
	ContextLength int
	Capabilities  []string
	Enabled       bool
	Default       bool
}

// LoadModelSeeds parses the yaml file at the provided path.
func LoadModelSeeds(path string) ([]ModelSeedEntry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("model seed path is empty")
	}

	log := logger.GetLogger()
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read model seed file %q: %w", cleanPath, err)
	}
	log.Info().Str("path", cleanPath).Msg("loading model seed file")

	var doc modelSeedDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse model seed file %q: %w", cleanPath, err)
	}

	if len(doc.Models) == 0 {
		return nil, fmt.Errorf("model seed file %q has no models defined", cleanPath)
	}

	seeds := make([]ModelSeedEntry, 0, len(doc.Models))
	defaults := 0
	for idx, entry := range doc.Models {
		entryLogger := log.With().Int("index", idx).Str("id", entry.ID).Logger()
		normalized, err := normalizeModelSeedEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("models[%d]: %w", idx, err)
		}
		if !normalized.Enabled {
			entryLogger.Info().Msg("including disabled model seed")
		}
		if normalized.Default {
			defaults++
		}
		entryLogger.Info().
			Str("display_name", normalized.DisplayName).
			Bool("enabled", normalized.Enabled).
			Bool("default", normalized.Default).
			Msg("including model seed")
		seeds = append(seeds, normalized)
	}

	if defaults > 1 {
		return nil, fmt.Errorf("model seed file %q declares %d default models, want at most one", cleanPath, defaults)
	}

	return seeds, nil
}

type modelSeedDocument struct {
	Models []modelSeedEntryYAML `yaml:"models"`
}

type modelSeedEntryYAML struct {
	ID            string   `yaml:"id" validate:"required"`
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description"`
	ContextLength int      `yaml:"context_length" validate:"gte=0"`
	Capabilities  []string `yaml:"capabilities"`
	Enabled       *bool    `yaml:"enabled"`
	Default       bool     `yaml:"default"`
}

func normalizeModelSeedEntry(entry modelSeedEntryYAML) (ModelSeedEntry, error) {
	if err := seedValidator.Struct(entry); err != nil {
		return ModelSeedEntry{}, fmt.Errorf("invalid model seed: %w", err)
	}

	slug := strings.TrimSpace(entry.ID)
	if slug == "" {
		return ModelSeedEntry{}, errors.New("model id is required")
	}

	name := strings.TrimSpace(entry.Name)
	if name == "" {
		name = slug
	}

	enabled := true
	if entry.Enabled != nil {
		enabled = *entry.Enabled
	}

	capabilities := make([]string, 0, len(entry.Capabilities))
	for _, c := range entry.Capabilities {
		if v := strings.TrimSpace(c); v != "" {
			capabilities = append(capabilities, v)
		}
	}
	if len(capabilities) == 0 {
		capabilities = nil
	}

	return ModelSeedEntry{
		Slug:          slug,
		DisplayName:   name,
		Description:   strings.TrimSpace(entry.Description),
		ContextLength: entry.ContextLength,
		Capabilities:  capabilities,
		Enabled:       enabled,
		Default:       entry.Default,
	}, nil
}
