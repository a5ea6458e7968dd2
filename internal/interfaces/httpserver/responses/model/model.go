// Package modelresponses carries the wire shapes of the model catalog
// endpoints.
package modelresponses

import (
	domainmodel "github.com/tahien663-cpu/chat-api/internal/domain/model"
)

// ModelResponse is one catalog entry as returned to clients. ID is the
// provider slug clients pass back in chat turns.
type ModelResponse struct {
	ID            string   `json:"id"`
	Object        string   `json:"object"`
	DisplayName   string   `json:"display_name"`
	Description   string   `json:"description,omitempty"`
	Capabilities  []string `json:"capabilities"`
	ContextLength int      `json:"context_length"`
	IsDefault     bool     `json:"is_default"`
	Created       int64    `json:"created"`
}

// ModelResponseList is the enabled catalog.
type ModelResponseList struct {
	Object string          `json:"object"`
	Data   []ModelResponse `json:"data"`
}

// NewModelResponse maps a catalog entry to its wire shape.
func NewModelResponse(model *domainmodel.Model) ModelResponse {
	capabilities := model.Capabilities
	if capabilities == nil {
		capabilities = []string{}
	}
	return ModelResponse{
		ID:            model.Slug,
		Object:        "model",
		DisplayName:   model.DisplayName,
		Description:   model.Description,
		Capabilities:  capabilities,
		ContextLength: model.ContextLength,
		IsDefault:     model.IsDefault,
		Created:       model.CreatedAt.Unix(),
	}
}

// NewModelResponseList assembles the catalog listing.
func NewModelResponseList(models []*domainmodel.Model) *ModelResponseList {
	data := make([]ModelResponse, 0, len(models))
	for _, model := range models {
		if model == nil {
			continue
		}
		data = append(data, NewModelResponse(model))
	}
	return &ModelResponseList{
		Object: "list",
		Data:   data,
	}
}
