package conversationrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tahien663-cpu/chat-api/internal/domain/conversation"
	"github.com/tahien663-cpu/chat-api/internal/domain/query"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/database/dbschema"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/database/transaction"
	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

type MessageGormRepository struct {
	db *transaction.Database
}

var _ conversation.MessageRepository = (*MessageGormRepository)(nil)

func NewMessageGormRepository(db *transaction.Database) conversation.MessageRepository {
	return &MessageGormRepository{db}
}

// Create implements conversation.MessageRepository.
func (repo *MessageGormRepository) Create(ctx context.Context, message *conversation.Message) error {
	entity, err := dbschema.NewSchemaMessage(message)
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to encode message metadata",
			err,
			"6b2e9d41-7c53-4f8a-a1d6-0e4b8c2f5a97",
		)
	}
	if err := repo.db.GetTx(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to create message")
	}
	// Update the domain object with generated ID and timestamps
	message.ID = entity.ID
	message.CreatedAt = entity.CreatedAt
	return nil
}

// FindByFilter implements conversation.MessageRepository.
func (repo *MessageGormRepository) FindByFilter(ctx context.Context, filter conversation.MessageFilter, pagination *query.Pagination) ([]*conversation.Message, error) {
	var rows []*dbschema.Message
	sql := repo.applyFilter(repo.db.GetTx(ctx).WithContext(ctx), filter)
	sql = applyPagination(sql, pagination, "created_at ASC, id ASC")

	if err := sql.Find(&rows).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to find messages")
	}

	result := make([]*conversation.Message, 0, len(rows))
	for _, row := range rows {
		message, err := row.EtoD()
		if err != nil {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError,
				"failed to decode message metadata",
				err,
				"a8f4c1d7-3e92-4b60-8c5f-d2b6e9a0f413",
			)
		}
		result = append(result, message)
	}
	return result, nil
}

// Count implements conversation.MessageRepository.
func (repo *MessageGormRepository) Count(ctx context.Context, filter conversation.MessageFilter) (int64, error) {
	var count int64
	sql := repo.applyFilter(repo.db.GetTx(ctx).WithContext(ctx).Model(&dbschema.Message{}), filter)
	if err := sql.Count(&count).Error; err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to count messages")
	}
	return count, nil
}

// FindByPublicID implements conversation.MessageRepository.
func (repo *MessageGormRepository) FindByPublicID(ctx context.Context, publicID string) (*conversation.Message, error) {
	var entity dbschema.Message
	err := repo.db.GetTx(ctx).WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to find message by public ID")
	}
	message, err := entity.EtoD()
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to decode message metadata",
			err,
			"5d7e2b90-4a16-4c83-9f2d-b1c8e6a3f750",
		)
	}
	return message, nil
}

func (repo *MessageGormRepository) applyFilter(sql *gorm.DB, filter conversation.MessageFilter) *gorm.DB {
	if filter.ConversationID != nil {
		sql = sql.Where("conversation_id = ?", *filter.ConversationID)
	}
	if filter.PublicID != nil {
		sql = sql.Where("public_id = ?", *filter.PublicID)
	}
	if filter.Role != nil {
		sql = sql.Where("role = ?", string(*filter.Role))
	}
	return sql
}
