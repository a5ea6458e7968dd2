package conversationrepo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tahien663-cpu/chat-api/internal/domain/conversation"
	"github.com/tahien663-cpu/chat-api/internal/domain/query"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/database/dbschema"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/database/transaction"
	"github.com/tahien663-cpu/chat-api/internal/utils/functional"
	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

type ConversationGormRepository struct {
	db *transaction.Database
}

var _ conversation.ConversationRepository = (*ConversationGormRepository)(nil)

func NewConversationGormRepository(db *transaction.Database) conversation.ConversationRepository {
	return &ConversationGormRepository{db}
}

// Create implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) Create(ctx context.Context, conv *conversation.Conversation) error {
	entity := dbschema.NewSchemaConversation(conv)
	if err := repo.db.GetTx(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to create conversation")
	}
	// Update the domain object with generated ID and timestamps
	conv.ID = entity.ID
	conv.CreatedAt = entity.CreatedAt
	conv.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByFilter implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) FindByFilter(ctx context.Context, filter conversation.ConversationFilter, pagination *query.Pagination) ([]*conversation.Conversation, error) {
	var rows []*dbschema.Conversation
	sql := repo.applyFilter(repo.db.GetTx(ctx).WithContext(ctx), filter)
	sql = applyPagination(sql, pagination, "updated_at DESC")

	if err := sql.Find(&rows).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to find conversations")
	}

	result := functional.Map(rows, func(item *dbschema.Conversation) *conversation.Conversation {
		return item.EtoD()
	})
	return result, nil
}

// Count implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) Count(ctx context.Context, filter conversation.ConversationFilter) (int64, error) {
	var count int64
	sql := repo.applyFilter(repo.db.GetTx(ctx).WithContext(ctx).Model(&dbschema.Conversation{}), filter)
	if err := sql.Count(&count).Error; err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to count conversations")
	}
	return count, nil
}

// FindByPublicID implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) FindByPublicID(ctx context.Context, publicID string) (*conversation.Conversation, error) {
	var entity dbschema.Conversation
	err := repo.db.GetTx(ctx).WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to find conversation by public ID")
	}
	return entity.EtoD(), nil
}

// Update implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) Update(ctx context.Context, conv *conversation.Conversation) error {
	entity := dbschema.NewSchemaConversation(conv)
	if err := repo.db.GetTx(ctx).WithContext(ctx).
		Where("id = ?", conv.ID).
		Save(entity).Error; err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to update conversation")
	}
	conv.UpdatedAt = entity.UpdatedAt
	return nil
}

// UpdateSummary implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) UpdateSummary(ctx context.Context, id uint, lastMessage string, updatedAt time.Time) error {
	err := repo.db.GetTx(ctx).WithContext(ctx).
		Model(&dbschema.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_message": lastMessage,
			"updated_at":   updatedAt,
		}).Error
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to update conversation summary")
	}
	return nil
}

// Delete implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) Delete(ctx context.Context, id uint) error {
	err := repo.db.GetTx(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&dbschema.Conversation{}).Error
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to delete conversation")
	}
	return nil
}

// FindSummaryCandidates implements conversation.ConversationRepository.
func (repo *ConversationGormRepository) FindSummaryCandidates(ctx context.Context, updatedBefore time.Time, limit int) ([]*conversation.Conversation, error) {
	var rows []*dbschema.Conversation
	err := repo.db.GetTx(ctx).WithContext(ctx).
		Where("(last_message IS NULL OR last_message = '')").
		Where("updated_at < ?", updatedBefore).
		Order("updated_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to find summary candidates")
	}

	result := functional.Map(rows, func(item *dbschema.Conversation) *conversation.Conversation {
		return item.EtoD()
	})
	return result, nil
}

func (repo *ConversationGormRepository) applyFilter(sql *gorm.DB, filter conversation.ConversationFilter) *gorm.DB {
	if filter.ID != nil {
		sql = sql.Where("id = ?", *filter.ID)
	}
	if filter.PublicID != nil {
		sql = sql.Where("public_id = ?", *filter.PublicID)
	}
	if filter.UserID != nil {
		sql = sql.Where("user_id = ?", *filter.UserID)
	}
	return sql
}

// applyPagination translates the domain pagination options to gorm calls.
// Shared by the conversation and message repositories. A cursor walk orders
// by id in the requested direction; a descending walk pages toward older
// rows, so the cursor bounds from above.
func applyPagination(sql *gorm.DB, pagination *query.Pagination, defaultOrder string) *gorm.DB {
	if pagination == nil {
		if defaultOrder != "" {
			sql = sql.Order(defaultOrder)
		}
		return sql
	}

	if pagination.After != nil {
		if pagination.Order == "desc" {
			sql = sql.Where("id < ?", *pagination.After)
		} else {
			sql = sql.Where("id > ?", *pagination.After)
		}
	}
	if pagination.Limit != nil && *pagination.Limit > 0 {
		sql = sql.Limit(*pagination.Limit)
	}
	if pagination.Offset != nil {
		sql = sql.Offset(*pagination.Offset)
	}

	switch pagination.Order {
	case "desc":
		sql = sql.Order("id DESC")
	case "asc":
		sql = sql.Order("id ASC")
	default:
		if defaultOrder != "" {
			sql = sql.Order(defaultOrder)
		}
	}
	return sql
}
