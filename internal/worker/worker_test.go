package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/griffinm/jotter/internal/domain/agent"
	"github.com/griffinm/jotter/internal/domain/conversation"
	"github.com/griffinm/jotter/internal/infrastructure/metrics"
	"github.com/griffinm/jotter/internal/infrastructure/queue"
	"github.com/griffinm/jotter/internal/worker"
)

type statusUpdate struct {
	status conversation.Status
	errMsg *string
}

type mockConversations struct {
	conv    *conversation.Conversation
	updates []statusUpdate
}

func (m *mockConversations) Create(context.Context, *conversation.Conversation) error { return nil }

func (m *mockConversations) FindByPublicID(_ context.Context, publicID, userID string) (*conversation.Conversation, error) {
	if m.conv != nil && m.conv.PublicID == publicID && m.conv.UserID == userID {
		return m.conv, nil
	}
	return nil, errors.New("conversation not found")
}

func (m *mockConversations) List(context.Context, string, conversation.Pagination) ([]conversation.Summary, int64, error) {
	return nil, 0, nil
}

func (m *mockConversations) SoftDelete(context.Context, string, string) (*conversation.Conversation, error) {
	return nil, nil
}

func (m *mockConversations) UpdateStatus(_ context.Context, _ uint, status conversation.Status, errMsg *string) error {
	m.updates = append(m.updates, statusUpdate{status: status, errMsg: errMsg})
	return nil
}

func (m *mockConversations) Touch(context.Context, uint) error { return nil }

type mockQueue struct {
	mu        sync.Mutex
	jobs      []*queue.Job
	completed []uint
	failed    map[uint]string
}

func newMockQueue(jobs ...*queue.Job) *mockQueue {
	return &mockQueue{jobs: jobs, failed: make(map[uint]string)}
}

func (m *mockQueue) EnqueueMessage(context.Context, conversation.EnqueueParams) error { return nil }

func (m *mockQueue) Dequeue(context.Context) (*queue.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.jobs) == 0 {
		return nil, nil
	}
	job := m.jobs[0]
	m.jobs = m.jobs[1:]
	return job, nil
}

func (m *mockQueue) MarkCompleted(_ context.Context, jobID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed = append(m.completed, jobID)
	return nil
}

func (m *mockQueue) MarkFailed(_ context.Context, jobID uint, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed[jobID] = reason
	return nil
}

func (m *mockQueue) Depth(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.jobs)), nil
}

func (m *mockQueue) pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

type mockProcessor struct {
	result *agent.ProcessResult
	err    error
	calls  []agent.ProcessParams
}

func (m *mockProcessor) ProcessMessage(_ context.Context, params agent.ProcessParams) (*agent.ProcessResult, error) {
	m.calls = append(m.calls, params)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func testJob() *queue.Job {
	return &queue.Job{
		ID:             42,
		PublicID:       "job_1",
		ConversationID: "conv_1",
		UserID:         "user_1",
		Content:        "hello",
		UserMessageID:  "item_user",
		Status:         queue.JobStatusInProgress,
		Attempts:       1,
		MaxAttempts:    3,
	}
}

func newTestWorker(q queue.Queue, p worker.Processor, convs conversation.Repository) *worker.Worker {
	return worker.NewWorker(
		1, q, p, convs,
		metrics.NewWithRegistry(prometheus.NewRegistry()),
		time.Millisecond, time.Second,
		zerolog.Nop(),
	)
}

func runUntilDrained(t *testing.T, w *worker.Worker, q *mockQueue) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for q.pending() > 0 {
		select {
		case <-deadline:
			cancel()
			<-done
			t.Fatalf("queue not drained in time")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	// One extra poll interval so the in-flight job finishes.
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done
}

func TestWorkerCompletesJobAndRestoresIdle(t *testing.T) {
	q := newMockQueue(testJob())
	convs := &mockConversations{conv: &conversation.Conversation{ID: 7, PublicID: "conv_1", UserID: "user_1", Status: conversation.StatusProcessing}}
	processor := &mockProcessor{result: &agent.ProcessResult{Iterations: 1}}

	w := newTestWorker(q, processor, convs)
	runUntilDrained(t, w, q)

	if len(processor.calls) != 1 {
		t.Fatalf("expected 1 processed job, got %d", len(processor.calls))
	}
	call := processor.calls[0]
	if call.ConversationID != "conv_1" || call.UserMessageID != "item_user" || call.Content != "hello" {
		t.Errorf("job payload not forwarded: %+v", call)
	}

	if len(q.completed) != 1 || q.completed[0] != 42 {
		t.Errorf("job should be marked completed: %v", q.completed)
	}
	if len(q.failed) != 0 {
		t.Errorf("no failure expected: %v", q.failed)
	}

	if len(convs.updates) != 1 {
		t.Fatalf("expected 1 status update, got %d", len(convs.updates))
	}
	if convs.updates[0].status != conversation.StatusIdle || convs.updates[0].errMsg != nil {
		t.Errorf("conversation should return to idle with no error: %+v", convs.updates[0])
	}
}

func TestWorkerRecordsFailure(t *testing.T) {
	q := newMockQueue(testJob())
	convs := &mockConversations{conv: &conversation.Conversation{ID: 7, PublicID: "conv_1", UserID: "user_1", Status: conversation.StatusProcessing}}
	processor := &mockProcessor{err: errors.New("rate limited")}

	w := newTestWorker(q, processor, convs)
	runUntilDrained(t, w, q)

	if len(q.completed) != 0 {
		t.Errorf("failed job must not be completed: %v", q.completed)
	}
	reason, ok := q.failed[42]
	if !ok || reason != "rate limited" {
		t.Errorf("failure reason should be recorded: %v", q.failed)
	}

	if len(convs.updates) != 1 {
		t.Fatalf("expected 1 status update, got %d", len(convs.updates))
	}
	update := convs.updates[0]
	if update.status != conversation.StatusError {
		t.Errorf("conversation should land in error state, got %s", update.status)
	}
	if update.errMsg == nil || *update.errMsg != "rate limited" {
		t.Errorf("error message should be stored: %v", update.errMsg)
	}
}

func TestWorkerIdlesOnEmptyQueue(t *testing.T) {
	q := newMockQueue()
	convs := &mockConversations{}
	processor := &mockProcessor{result: &agent.ProcessResult{}}

	w := newTestWorker(q, processor, convs)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()
	<-done

	if len(processor.calls) != 0 {
		t.Errorf("nothing should be processed on an empty queue")
	}
}
