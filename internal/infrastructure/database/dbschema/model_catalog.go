package dbschema

import (
	"github.com/lib/pq"

	domainmodel "github.com/tahien663-cpu/chat-api/internal/domain/model"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(ModelCatalog{})
}

type ModelCatalog struct {
	BaseModel
	Slug          string         `gorm:"size:128;not null;uniqueIndex:ux_model_catalogs_slug"`
	DisplayName   string         `gorm:"size:255;not null"`
	Description   *string        `gorm:"type:text"`
	ContextLength int            `gorm:"not null;default:0"`
	Capabilities  pq.StringArray `gorm:"type:text[]"`
	Enabled       bool           `gorm:"not null;default:true;index"`
	IsDefault     bool           `gorm:"not null;default:false"`
}

func NewSchemaModelCatalog(m *domainmodel.Model) *ModelCatalog {
	entity := &ModelCatalog{
		BaseModel: BaseModel{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Slug:          m.Slug,
		DisplayName:   m.DisplayName,
		ContextLength: m.ContextLength,
		Capabilities:  pq.StringArray(m.Capabilities),
		Enabled:       m.Enabled,
		IsDefault:     m.IsDefault,
	}
	if m.Description != "" {
		description := m.Description
		entity.Description = &description
	}
	return entity
}

func (m *ModelCatalog) EtoD() *domainmodel.Model {
	entity := &domainmodel.Model{
		ID:            m.ID,
		Slug:          m.Slug,
		DisplayName:   m.DisplayName,
		ContextLength: m.ContextLength,
		Capabilities:  []string(m.Capabilities),
		Enabled:       m.Enabled,
		IsDefault:     m.IsDefault,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Description != nil {
		entity.Description = *m.Description
	}
	return entity
}
