package task

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/griffinm/jotter/internal/domain/conversation"
	"github.com/griffinm/jotter/internal/utils/platformerrors"
)

const defaultSearchLimit = 20

// Service exposes task operations to the tool layer.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*Task, error)
	Search(ctx context.Context, filter Filter) ([]*Task, error)
	Update(ctx context.Context, params UpdateParams) (*Task, error)
	Get(ctx context.Context, userID, search string) ([]*Task, error)
}

// CreateParams describes a new task.
type CreateParams struct {
	UserID      string
	Title       string
	Description *string
	DueDate     *time.Time
	Priority    *Priority
}

// UpdateParams describes a partial task update. Nil fields are left unchanged.
type UpdateParams struct {
	UserID      string
	TaskID      string
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
	DueDate     *time.Time
}

// ServiceImpl provides the domain implementation.
type ServiceImpl struct {
	tasks Repository
	log   zerolog.Logger
}

// NewService wires dependencies.
func NewService(tasks Repository, log zerolog.Logger) *ServiceImpl {
	return &ServiceImpl{
		tasks: tasks,
		log:   log.With().Str("component", "task-service").Logger(),
	}
}

var _ Service = (*ServiceImpl)(nil)

// Create persists a new task in status todo.
func (s *ServiceImpl) Create(ctx context.Context, params CreateParams) (*Task, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"task title is empty",
			nil,
			"create-task-empty-title",
		)
	}
	if params.Priority != nil && !params.Priority.Valid() {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"unknown task priority: "+string(*params.Priority),
			nil,
			"create-task-bad-priority",
		)
	}

	now := time.Now()
	t := &Task{
		PublicID:    conversation.NewPublicID("task"),
		UserID:      params.UserID,
		Title:       title,
		Description: params.Description,
		Status:      StatusTodo,
		Priority:    params.Priority,
		DueDate:     params.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Search returns tasks matching the filter.
func (s *ServiceImpl) Search(ctx context.Context, filter Filter) ([]*Task, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultSearchLimit
	}
	return s.tasks.FindByFilter(ctx, filter)
}

// Update applies a partial update to an owned task.
func (s *ServiceImpl) Update(ctx context.Context, params UpdateParams) (*Task, error) {
	t, err := s.tasks.FindByPublicID(ctx, params.TaskID, params.UserID)
	if err != nil {
		return nil, err
	}

	if params.Status != nil {
		if !params.Status.Valid() {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerDomain,
				platformerrors.ErrorTypeValidation,
				"unknown task status: "+string(*params.Status),
				nil,
				"update-task-bad-status",
			)
		}
		t.Status = *params.Status
	}
	if params.Title != nil && strings.TrimSpace(*params.Title) != "" {
		t.Title = strings.TrimSpace(*params.Title)
	}
	if params.Description != nil {
		t.Description = params.Description
	}
	if params.Priority != nil {
		if !params.Priority.Valid() {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerDomain,
				platformerrors.ErrorTypeValidation,
				"unknown task priority: "+string(*params.Priority),
				nil,
				"update-task-bad-priority",
			)
		}
		t.Priority = params.Priority
	}
	if params.DueDate != nil {
		t.DueDate = params.DueDate
	}
	t.UpdatedAt = time.Now()

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get resolves a free-text lookup to one or more matching tasks.
func (s *ServiceImpl) Get(ctx context.Context, userID, search string) ([]*Task, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"task search is empty",
			nil,
			"get-task-empty-search",
		)
	}

	// An exact public ID wins over a title match.
	if strings.HasPrefix(search, "task_") {
		t, err := s.tasks.FindByPublicID(ctx, search, userID)
		if err == nil {
			return []*Task{t}, nil
		}
		if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return nil, err
		}
	}

	return s.tasks.FindByFilter(ctx, Filter{
		UserID: userID,
		Search: &search,
		Limit:  defaultSearchLimit,
	})
}
