package note

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/griffinm/jotter/internal/domain/note"
	"github.com/griffinm/jotter/internal/infrastructure/database/entities"
	"github.com/griffinm/jotter/internal/utils/platformerrors"
)

// Repository persists notes and notebooks.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a note repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ domain.Repository = (*Repository)(nil)

// CreateNote inserts the note record.
func (r *Repository) CreateNote(ctx context.Context, n *domain.Note) error {
	entity := entities.NewNoteEntity(n)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create note",
			err,
			"note-create-db-error",
		)
	}

	n.ID = entity.ID
	n.CreatedAt = entity.CreatedAt
	n.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindNoteByPublicID fetches an owned note with its notebook preloaded.
func (r *Repository) FindNoteByPublicID(ctx context.Context, publicID, userID string) (*domain.Note, error) {
	var entity entities.Note
	if err := r.db.WithContext(ctx).
		Preload("Notebook").
		Where("public_id = ? AND user_id = ?", publicID, userID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("note not found: %s", publicID),
				nil,
				"note-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch note",
			err,
			"note-fetch-db-error",
		)
	}
	return entity.ToDomain(), nil
}

// SearchNotes matches the query against titles and content, most recently
// updated first.
func (r *Repository) SearchNotes(ctx context.Context, userID, query string, limit int) ([]*domain.Note, error) {
	pattern := "%" + query + "%"

	var rows []entities.Note
	if err := r.db.WithContext(ctx).
		Preload("Notebook").
		Where("user_id = ?", userID).
		Where("title ILIKE ? OR content ILIKE ?", pattern, pattern).
		Order("updated_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to search notes",
			err,
			"note-search-db-error",
		)
	}

	notes := make([]*domain.Note, 0, len(rows))
	for i := range rows {
		notes = append(notes, rows[i].ToDomain())
	}
	return notes, nil
}

// CreateNotebook inserts the notebook record.
func (r *Repository) CreateNotebook(ctx context.Context, nb *domain.Notebook) error {
	entity := entities.NewNotebookEntity(nb)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create notebook",
			err,
			"notebook-create-db-error",
		)
	}

	nb.ID = entity.ID
	nb.CreatedAt = entity.CreatedAt
	nb.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindNotebookByPublicID fetches an owned notebook.
func (r *Repository) FindNotebookByPublicID(ctx context.Context, publicID, userID string) (*domain.Notebook, error) {
	var entity entities.Notebook
	if err := r.db.WithContext(ctx).
		Where("public_id = ? AND user_id = ?", publicID, userID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("notebook not found: %s", publicID),
				nil,
				"notebook-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch notebook",
			err,
			"notebook-fetch-db-error",
		)
	}
	return entity.ToDomain(), nil
}

// FirstNotebook returns the user's oldest notebook.
func (r *Repository) FirstNotebook(ctx context.Context, userID string) (*domain.Notebook, error) {
	var entity entities.Notebook
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"user has no notebooks",
				nil,
				"notebook-none-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch notebook",
			err,
			"notebook-first-db-error",
		)
	}
	return entity.ToDomain(), nil
}
