package entities

import (
	"time"

	"github.com/griffinm/jotter/internal/domain/task"
)

// Task is the database representation of a task.
type Task struct {
	ID          uint    `gorm:"primaryKey"`
	PublicID    string  `gorm:"uniqueIndex;size:64;not null"`
	UserID      string  `gorm:"index;size:64;not null"`
	Title       string  `gorm:"size:255;not null"`
	Description *string `gorm:"type:text"`
	Status      string  `gorm:"size:16;not null;default:todo"`
	Priority    *string `gorm:"size:8"`
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the gorm default.
func (Task) TableName() string {
	return "tasks"
}

// ToDomain converts the entity to the domain model.
func (e *Task) ToDomain() *task.Task {
	t := &task.Task{
		ID:          e.ID,
		PublicID:    e.PublicID,
		UserID:      e.UserID,
		Title:       e.Title,
		Description: e.Description,
		Status:      task.Status(e.Status),
		DueDate:     e.DueDate,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.Priority != nil {
		p := task.Priority(*e.Priority)
		t.Priority = &p
	}
	return t
}

// NewTaskEntity converts the domain model to its entity.
func NewTaskEntity(t *task.Task) *Task {
	entity := &Task{
		ID:          t.ID,
		PublicID:    t.PublicID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Priority != nil {
		p := string(*t.Priority)
		entity.Priority = &p
	}
	return entity
}
