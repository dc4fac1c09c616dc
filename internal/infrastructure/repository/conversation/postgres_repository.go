package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/griffinm/jotter/internal/domain/conversation"
	"github.com/griffinm/jotter/internal/infrastructure/database/entities"
	"github.com/griffinm/jotter/internal/utils/platformerrors"
)

// Repository persists conversation metadata.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a conversation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ domain.Repository = (*Repository)(nil)

// Create inserts the conversation record.
func (r *Repository) Create(ctx context.Context, conv *domain.Conversation) error {
	entity := entities.NewConversationEntity(conv)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create conversation",
			err,
			"conversation-create-db-error",
		)
	}

	conv.ID = entity.ID
	conv.CreatedAt = entity.CreatedAt
	conv.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByPublicID fetches an owned conversation with its transcript. Soft
// deleted rows are excluded by the gorm.DeletedAt column.
func (r *Repository) FindByPublicID(ctx context.Context, publicID, userID string) (*domain.Conversation, error) {
	var entity entities.Conversation
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("conversation_items.created_at ASC, conversation_items.id ASC")
		}).
		Where("public_id = ? AND user_id = ?", publicID, userID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("conversation not found: %s", publicID),
				nil,
				"conversation-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch conversation",
			err,
			"conversation-fetch-db-error",
		)
	}

	conv, err := entity.ToDomain()
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal,
			"failed to decode conversation",
			err,
			"conversation-decode-error",
		)
	}
	return conv, nil
}

// List returns summaries for the user ordered by most recent activity, each
// with only its first item preloaded for preview.
func (r *Repository) List(ctx context.Context, userID string, p domain.Pagination) ([]domain.Summary, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count conversations",
			err,
			"conversation-count-db-error",
		)
	}

	var rows []entities.Conversation
	if err := query.
		Order("updated_at DESC").
		Offset((p.Page - 1) * p.PageSize).
		Limit(p.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list conversations",
			err,
			"conversation-list-db-error",
		)
	}

	summaries := make([]domain.Summary, 0, len(rows))
	for i := range rows {
		conv, err := rows[i].ToDomain()
		if err != nil {
			return nil, 0, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeInternal,
				"failed to decode conversation",
				err,
				"conversation-decode-error",
			)
		}

		summary := domain.Summary{Conversation: *conv}
		first, err := r.firstItem(ctx, rows[i].ID)
		if err != nil {
			return nil, 0, err
		}
		summary.FirstItem = first
		summaries = append(summaries, summary)
	}

	return summaries, total, nil
}

func (r *Repository) firstItem(ctx context.Context, conversationID uint) (*domain.Item, error) {
	var entity entities.ConversationItem
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch first item",
			err,
			"conversation-first-item-db-error",
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
			"conversation-item-decode-error",
		)
	}
	return item, nil
}

// SoftDelete marks the conversation deleted and returns its final state.
// Items are left in place for audit.
func (r *Repository) SoftDelete(ctx context.Context, publicID, userID string) (*domain.Conversation, error) {
	conv, err := r.FindByPublicID(ctx, publicID, userID)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Where("id = ?", conv.ID).
		Delete(&entities.Conversation{}).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete conversation",
			err,
			"conversation-delete-db-error",
		)
	}

	now := time.Now()
	conv.DeletedAt = &now
	return conv, nil
}

// UpdateStatus transitions the conversation status. The error message column
// is cleared on every transition away from the error state.
func (r *Repository) UpdateStatus(ctx context.Context, id uint, status domain.Status, errMsg *string) error {
	updates := map[string]any{
		"status":        string(status),
		"error_message": nil,
		"updated_at":    time.Now(),
	}
	if status == domain.StatusError && errMsg != nil {
		updates["error_message"] = *errMsg
	}

	if err := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update conversation status",
			err,
			"conversation-status-db-error",
		)
	}
	return nil
}

// Touch bumps updated_at so the conversation sorts as recently active.
func (r *Repository) Touch(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to touch conversation",
			err,
			"conversation-touch-db-error",
		)
	}
	return nil
}
