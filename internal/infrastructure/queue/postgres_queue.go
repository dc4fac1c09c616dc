package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/griffinm/jotter/internal/domain/conversation"
	"github.com/griffinm/jotter/internal/infrastructure/database/entities"
)

// PostgresQueue implements Queue on the message_jobs table.
type PostgresQueue struct {
	db          *gorm.DB
	maxAttempts int
	log         zerolog.Logger
}

// NewPostgresQueue creates a PostgreSQL-backed message queue.
func NewPostgresQueue(db *gorm.DB, maxAttempts int, log zerolog.Logger) *PostgresQueue {
	return &PostgresQueue{
		db:          db,
		maxAttempts: maxAttempts,
		log:         log.With().Str("component", "postgres-queue").Logger(),
	}
}

var _ Queue = (*PostgresQueue)(nil)

// EnqueueMessage persists the job in the queued state.
func (q *PostgresQueue) EnqueueMessage(ctx context.Context, params conversation.EnqueueParams) error {
	now := time.Now()
	job := &entities.MessageJob{
		PublicID:       conversation.NewPublicID("job"),
		ConversationID: params.ConversationID,
		UserID:         params.UserID,
		Content:        params.Content,
		UserMessageID:  params.UserMessageID,
		Status:         string(JobStatusQueued),
		MaxAttempts:    q.maxAttempts,
		QueuedAt:       now,
	}

	if err := q.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("enqueue message job: %w", err)
	}

	q.log.Debug().
		Str("job_id", job.PublicID).
		Str("conversation_id", params.ConversationID).
		Msg("job enqueued")
	return nil
}

// Dequeue claims the oldest runnable job inside one transaction. The row is
// locked with FOR UPDATE SKIP LOCKED so concurrent workers never claim the
// same job, and conversations with an in-progress job are skipped so their
// messages stay strictly ordered.
func (q *PostgresQueue) Dequeue(ctx context.Context) (*Job, error) {
	var claimed *Job

	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entity entities.MessageJob
		err := tx.
			Raw(`SELECT * FROM message_jobs
				WHERE status = ?
				  AND conversation_id NOT IN (
					SELECT conversation_id FROM message_jobs WHERE status = ?
				  )
				ORDER BY queued_at ASC
				LIMIT 1
				FOR UPDATE SKIP LOCKED`,
				string(JobStatusQueued), string(JobStatusInProgress)).
			Scan(&entity).Error
		if err != nil {
			return fmt.Errorf("select job: %w", err)
		}
		if entity.ID == 0 {
			return nil // nothing runnable
		}

		now := time.Now()
		if err := tx.Model(&entities.MessageJob{}).
			Where("id = ?", entity.ID).
			Updates(map[string]interface{}{
				"status":     string(JobStatusInProgress),
				"attempts":   entity.Attempts + 1,
				"started_at": now,
				"updated_at": now,
			}).Error; err != nil {
			return fmt.Errorf("claim job: %w", err)
		}

		claimed = &Job{
			ID:             entity.ID,
			PublicID:       entity.PublicID,
			ConversationID: entity.ConversationID,
			UserID:         entity.UserID,
			Content:        entity.Content,
			UserMessageID:  entity.UserMessageID,
			Status:         JobStatusInProgress,
			Attempts:       entity.Attempts + 1,
			MaxAttempts:    entity.MaxAttempts,
			LastError:      entity.LastError,
			QueuedAt:       entity.QueuedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return claimed, nil
}

// MarkCompleted finishes the job successfully.
func (q *PostgresQueue) MarkCompleted(ctx context.Context, jobID uint) error {
	now := time.Now()
	result := q.db.WithContext(ctx).
		Model(&entities.MessageJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":      string(JobStatusCompleted),
			"finished_at": now,
			"updated_at":  now,
		})
	if result.Error != nil {
		return fmt.Errorf("mark completed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("job not found: %d", jobID)
	}
	return nil
}

// MarkFailed records the failure, re-queueing the job while attempts remain.
func (q *PostgresQueue) MarkFailed(ctx context.Context, jobID uint, reason string) error {
	var entity entities.MessageJob
	if err := q.db.WithContext(ctx).First(&entity, jobID).Error; err != nil {
		return fmt.Errorf("fetch job for failure: %w", err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"last_error": reason,
		"updated_at": now,
	}
	if entity.Attempts >= entity.MaxAttempts {
		updates["status"] = string(JobStatusFailed)
		updates["finished_at"] = now
	} else {
		updates["status"] = string(JobStatusQueued)
	}

	if err := q.db.WithContext(ctx).
		Model(&entities.MessageJob{}).
		Where("id = ?", jobID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}

	if updates["status"] == string(JobStatusFailed) {
		q.log.Error().
			Str("job_id", entity.PublicID).
			Int("attempts", entity.Attempts).
			Str("reason", reason).
			Msg("job exhausted its attempts")
	} else {
		q.log.Warn().
			Str("job_id", entity.PublicID).
			Int("attempts", entity.Attempts).
			Str("reason", reason).
			Msg("job re-queued after failure")
	}
	return nil
}

// Depth counts jobs waiting to be claimed.
func (q *PostgresQueue) Depth(ctx context.Context) (int64, error) {
	var depth int64
	if err := q.db.WithContext(ctx).
		Model(&entities.MessageJob{}).
		Where("status = ?", string(JobStatusQueued)).
		Count(&depth).Error; err != nil {
		return 0, fmt.Errorf("queue depth: %w", err)
	}
	return depth, nil
}
