package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/griffinm/jotter/internal/domain/agent"
	"github.com/griffinm/jotter/internal/domain/conversation"
	"github.com/griffinm/jotter/internal/infrastructure/metrics"
	"github.com/griffinm/jotter/internal/infrastructure/queue"
)

// Processor runs the agent loop for one claimed job.
type Processor interface {
	ProcessMessage(ctx context.Context, params agent.ProcessParams) (*agent.ProcessResult, error)
}

// Worker polls the queue and drives claimed jobs through the agent.
type Worker struct {
	id            int
	queue         queue.Queue
	processor     Processor
	conversations conversation.Repository
	metrics       *metrics.Metrics
	pollInterval  time.Duration
	jobTimeout    time.Duration
	tracer        trace.Tracer
	log           zerolog.Logger
	stopChan      chan struct{}
}

// NewWorker creates a background worker.
func NewWorker(
	id int,
	q queue.Queue,
	processor Processor,
	conversations conversation.Repository,
	m *metrics.Metrics,
	pollInterval, jobTimeout time.Duration,
	log zerolog.Logger,
) *Worker {
	return &Worker{
		id:            id,
		queue:         q,
		processor:     processor,
		conversations: conversations,
		metrics:       m,
		pollInterval:  pollInterval,
		jobTimeout:    jobTimeout,
		tracer:        otel.Tracer("jotter/worker"),
		log:           log.With().Int("worker_id", id).Str("component", "worker").Logger(),
		stopChan:      make(chan struct{}),
	}
}

// Start polls for jobs until stopped.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info().Msg("worker started")

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("worker stopped by context")
			return
		case <-w.stopChan:
			w.log.Info().Msg("worker stopped")
			return
		case <-ticker.C:
			w.processNextJob(ctx)
		}
	}
}

// Stop signals the worker to exit after its current job.
func (w *Worker) Stop() {
	close(w.stopChan)
}

func (w *Worker) processNextJob(ctx context.Context) {
	job, err := w.queue.Dequeue(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("failed to dequeue job")
		return
	}
	if job == nil {
		return
	}

	w.metrics.JobsInFlight.Inc()
	defer w.metrics.JobsInFlight.Dec()

	start := time.Now()
	ctx, span := w.tracer.Start(ctx, "worker.process_job",
		trace.WithAttributes(
			attribute.String("job.id", job.PublicID),
			attribute.String("conversation.id", job.ConversationID),
			attribute.Int("job.attempt", job.Attempts),
		))
	defer span.End()

	w.log.Info().
		Str("job_id", job.PublicID).
		Str("conversation_id", job.ConversationID).
		Int("attempt", job.Attempts).
		Msg("processing message job")

	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	result, err := w.processor.ProcessMessage(jobCtx, agent.ProcessParams{
		ConversationID: job.ConversationID,
		UserID:         job.UserID,
		Content:        job.Content,
		UserMessageID:  job.UserMessageID,
	})

	// Status updates and queue bookkeeping use the outer context so they
	// still land when the job context has expired.
	if err != nil {
		w.metrics.JobsProcessed.WithLabelValues("failed").Inc()
		w.log.Error().Err(err).Str("job_id", job.PublicID).Msg("job processing failed")

		w.setConversationStatus(ctx, job, conversation.StatusError, err.Error())
		if markErr := w.queue.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
			w.log.Error().Err(markErr).Str("job_id", job.PublicID).Msg("failed to mark job failed")
		}
		return
	}

	w.setConversationStatus(ctx, job, conversation.StatusIdle, "")
	if markErr := w.queue.MarkCompleted(ctx, job.ID); markErr != nil {
		w.log.Error().Err(markErr).Str("job_id", job.PublicID).Msg("failed to mark job completed")
	}

	w.metrics.JobsProcessed.WithLabelValues("completed").Inc()
	w.metrics.JobDuration.Observe(time.Since(start).Seconds())
	w.log.Info().
		Str("job_id", job.PublicID).
		Int("iterations", result.Iterations).
		Bool("action_taken", result.ActionTaken).
		Dur("duration", time.Since(start)).
		Msg("job completed")
}

func (w *Worker) setConversationStatus(ctx context.Context, job *queue.Job, status conversation.Status, errMsg string) {
	conv, err := w.conversations.FindByPublicID(ctx, job.ConversationID, job.UserID)
	if err != nil {
		w.log.Error().Err(err).Str("conversation_id", job.ConversationID).Msg("failed to load conversation for status update")
		return
	}

	var msg *string
	if status == conversation.StatusError && errMsg != "" {
		msg = &errMsg
	}
	if err := w.conversations.UpdateStatus(ctx, conv.ID, status, msg); err != nil {
		w.log.Error().Err(err).Str("conversation_id", job.ConversationID).Msg("failed to update conversation status")
	}
}
