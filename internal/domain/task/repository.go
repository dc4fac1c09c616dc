package task

import "context"

// Repository persists tasks.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	Update(ctx context.Context, t *Task) error

	// FindByPublicID fetches an owned task; missing or foreign-owned rows
	// surface as NotFound.
	FindByPublicID(ctx context.Context, publicID, userID string) (*Task, error)

	// FindByFilter returns tasks matching the filter ordered by due date then
	// creation time.
	FindByFilter(ctx context.Context, filter Filter) ([]*Task, error)
}
