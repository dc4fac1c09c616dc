package task

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/griffinm/jotter/internal/domain/task"
	"github.com/griffinm/jotter/internal/infrastructure/database/entities"
	"github.com/griffinm/jotter/internal/utils/platformerrors"
)

// Repository persists tasks.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ domain.Repository = (*Repository)(nil)

// Create inserts the task record.
func (r *Repository) Create(ctx context.Context, t *domain.Task) error {
	entity := entities.NewTaskEntity(t)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create task",
			err,
			"task-create-db-error",
		)
	}

	t.ID = entity.ID
	t.CreatedAt = entity.CreatedAt
	t.UpdatedAt = entity.UpdatedAt
	return nil
}

// Update saves the full task record.
func (r *Repository) Update(ctx context.Context, t *domain.Task) error {
	entity := entities.NewTaskEntity(t)

	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update task",
			err,
			"task-update-db-error",
		)
	}
	return nil
}

// FindByPublicID fetches an owned task.
func (r *Repository) FindByPublicID(ctx context.Context, publicID, userID string) (*domain.Task, error) {
	var entity entities.Task
	if err := r.db.WithContext(ctx).
		Where("public_id = ? AND user_id = ?", publicID, userID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("task not found: %s", publicID),
				nil,
				"task-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch task",
			err,
			"task-fetch-db-error",
		)
	}
	return entity.ToDomain(), nil
}

// FindByFilter fetches tasks matching the filter criteria, most recently
// updated first.
func (r *Repository) FindByFilter(ctx context.Context, filter domain.Filter) ([]*domain.Task, error) {
	query := r.db.WithContext(ctx).
		Model(&entities.Task{}).
		Where("user_id = ?", filter.UserID)

	if filter.Search != nil {
		pattern := "%" + *filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", string(*filter.Priority))
	}
	if filter.DueBefore != nil {
		query = query.Where("due_date < ?", *filter.DueBefore)
	}
	if filter.DueAfter != nil {
		query = query.Where("due_date > ?", *filter.DueAfter)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []entities.Task
	if err := query.Order("updated_at DESC").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to search tasks",
			err,
			"task-search-db-error",
		)
	}

	tasks := make([]*domain.Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, rows[i].ToDomain())
	}
	return tasks, nil
}
