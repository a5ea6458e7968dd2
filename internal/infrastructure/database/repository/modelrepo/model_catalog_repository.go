package modelrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainmodel "github.com/tahien663-cpu/chat-api/internal/domain/model"
	"github.com/tahien663-cpu/chat-api/internal/domain/query"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/database/dbschema"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/database/transaction"
	"github.com/tahien663-cpu/chat-api/internal/utils/functional"
	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

type ModelCatalogGormRepository struct {
	db *transaction.Database
}

var _ domainmodel.Repository = (*ModelCatalogGormRepository)(nil)

func NewModelCatalogGormRepository(db *transaction.Database) domainmodel.Repository {
	return &ModelCatalogGormRepository{db}
}

// Upsert implements model.Repository. Rows are keyed by slug so seeding is
// idempotent across restarts.
func (repo *ModelCatalogGormRepository) Upsert(ctx context.Context, m *domainmodel.Model) error {
	entity := dbschema.NewSchemaModelCatalog(m)

	assignments := map[string]any{
		"display_name":   entity.DisplayName,
		"description":    entity.Description,
		"context_length": entity.ContextLength,
		"capabilities":   entity.Capabilities,
		"enabled":        entity.Enabled,
		"is_default":     entity.IsDefault,
		"updated_at":     gorm.Expr("NOW()"),
	}

	if err := repo.db.GetTx(ctx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to upsert model catalog entry",
			err,
			"e1c7a4f2-9b58-4d36-a0e9-7f3b2c6d8a15",
		)
	}

	m.ID = entity.ID
	m.CreatedAt = entity.CreatedAt
	m.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindBySlug implements model.Repository.
func (repo *ModelCatalogGormRepository) FindBySlug(ctx context.Context, slug string) (*domainmodel.Model, error) {
	var entity dbschema.ModelCatalog
	err := repo.db.GetTx(ctx).WithContext(ctx).
		Where("slug = ?", slug).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to find model by slug")
	}
	return entity.EtoD(), nil
}

// FindByFilter implements model.Repository.
func (repo *ModelCatalogGormRepository) FindByFilter(ctx context.Context, filter domainmodel.ModelFilter, pagination *query.Pagination) ([]*domainmodel.Model, error) {
	var rows []*dbschema.ModelCatalog
	sql := repo.applyFilter(repo.db.GetTx(ctx).WithContext(ctx), filter)

	if err := sql.Order("slug ASC").Find(&rows).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to find models")
	}

	result := functional.Map(rows, func(item *dbschema.ModelCatalog) *domainmodel.Model {
		return item.EtoD()
	})
	return result, nil
}

// Count implements model.Repository.
func (repo *ModelCatalogGormRepository) Count(ctx context.Context, filter domainmodel.ModelFilter) (int64, error) {
	var count int64
	sql := repo.applyFilter(repo.db.GetTx(ctx).WithContext(ctx).Model(&dbschema.ModelCatalog{}), filter)
	if err := sql.Count(&count).Error; err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to count models")
	}
	return count, nil
}

func (repo *ModelCatalogGormRepository) applyFilter(sql *gorm.DB, filter domainmodel.ModelFilter) *gorm.DB {
	if filter.Slug != nil {
		sql = sql.Where("slug = ?", *filter.Slug)
	}
	if filter.Enabled != nil {
		sql = sql.Where("enabled = ?", *filter.Enabled)
	}
	if filter.IsDefault != nil {
		sql = sql.Where("is_default = ?", *filter.IsDefault)
	}
	return sql
}
