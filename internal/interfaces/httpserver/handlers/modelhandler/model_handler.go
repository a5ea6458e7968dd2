// Package modelhandler serves the model catalog.
package modelhandler

import (
	"context"

	"github.com/tahien663-cpu/chat-api/internal/domain/model"
	modelresponses "github.com/tahien663-cpu/chat-api/internal/interfaces/httpserver/responses/model"
)

// ModelHandler handles model catalog requests.
type ModelHandler struct {
	catalogService *model.CatalogService
}

// NewModelHandler creates a new model handler.
func NewModelHandler(catalogService *model.CatalogService) *ModelHandler {
	return &ModelHandler{catalogService: catalogService}
}

// ListModels returns the enabled catalog entries clients may select for a
// chat turn.
func (h *ModelHandler) ListModels(ctx context.Context) (*modelresponses.ModelResponseList, error) {
	models, err := h.catalogService.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	return modelresponses.NewModelResponseList(models), nil
}
