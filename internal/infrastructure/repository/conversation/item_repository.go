package conversation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/griffinm/jotter/internal/domain/conversation"
	"github.com/griffinm/jotter/internal/infrastructure/database/entities"
	"github.com/griffinm/jotter/internal/utils/platformerrors"
)

// ItemRepository persists conversation items.
type ItemRepository struct {
	db *gorm.DB
}

// NewItemRepository builds an item repository.
func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

var _ domain.ItemRepository = (*ItemRepository)(nil)

// Create inserts the item record.
func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	entity, err := entities.NewConversationItemEntity(item)
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal,
			"failed to encode item",
			err,
			"item-encode-error",
		)
	}

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create item",
			err,
			"item-create-db-error",
		)
	}

	item.ID = entity.ID
	item.CreatedAt = entity.CreatedAt
	return nil
}

// ListByConversationID returns the transcript in chronological order.
func (r *ItemRepository) ListByConversationID(ctx context.Context, conversationID uint) ([]domain.Item, error) {
	var rows []entities.ConversationItem
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list items",
			err,
			"item-list-db-error",
		)
	}

	items := make([]domain.Item, 0, len(rows))
	for i := range rows {
		item, err := rows[i].ToDomain()
		if err != nil {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeInternal,
				"failed to decode item",
				err,
				"item-decode-error",
			)
		}
		items = append(items, *item)
	}
	return items, nil
}

// FindAssistantReply returns the assistant item answering the given user
// message, or nil when none exists yet.
func (r *ItemRepository) FindAssistantReply(ctx context.Context, conversationID uint, userMessageID string) (*domain.Item, error) {
	var entity entities.ConversationItem
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND role = ? AND reply_to_item_id = ?",
			conversationID, string(domain.RoleAssistant), userMessageID).
		First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch assistant reply",
			err,
			"item-reply-db-error",
		)
	}

	item, err := entity.ToDomain()
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal,
			"failed to decode item",
			err,
			"item-decode-error",
		)
	}
	return item, nil
}
