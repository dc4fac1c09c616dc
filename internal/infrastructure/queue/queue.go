package queue

import (
	"context"
	"time"

	"github.com/griffinm/jotter/internal/domain/conversation"
)

// JobStatus tracks a message job through its lifecycle.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job is one claimed unit of agent work.
type Job struct {
	ID             uint
	PublicID       string
	ConversationID string
	UserID         string
	Content        string
	UserMessageID  string
	Status         JobStatus
	Attempts       int
	MaxAttempts    int
	LastError      *string
	QueuedAt       time.Time
}

// Queue is a durable message-job queue. Enqueue satisfies the conversation
// layer's Enqueuer so sends survive a process restart.
type Queue interface {
	conversation.Enqueuer

	// Dequeue atomically claims the oldest runnable job, marking it in
	// progress. It returns (nil, nil) when nothing is runnable. Jobs for a
	// conversation that already has one in progress are not runnable: each
	// conversation is processed one message at a time, in order.
	Dequeue(ctx context.Context) (*Job, error)

	// MarkCompleted finishes the job successfully.
	MarkCompleted(ctx context.Context, jobID uint) error

	// MarkFailed records a failure. While attempts remain the job returns to
	// the queue; otherwise it lands in the failed state for good.
	MarkFailed(ctx context.Context, jobID uint, reason string) error

	// Depth counts jobs waiting to be claimed.
	Depth(ctx context.Context) (int64, error)
}
