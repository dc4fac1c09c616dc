package conversation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/griffinm/jotter/internal/domain/conversation"
	"github.com/griffinm/jotter/internal/utils/platformerrors"
)

type mockRepo struct {
	conv          *conversation.Conversation
	created       []*conversation.Conversation
	statusUpdates []conversation.Status
	listFunc      func(ctx context.Context, userID string, p conversation.Pagination) ([]conversation.Summary, int64, error)
}

func (m *mockRepo) Create(_ context.Context, conv *conversation.Conversation) error {
	conv.ID = uint(len(m.created) + 1)
	m.created = append(m.created, conv)
	return nil
}

func (m *mockRepo) FindByPublicID(ctx context.Context, publicID, userID string) (*conversation.Conversation, error) {
	if m.conv != nil && m.conv.PublicID == publicID && m.conv.UserID == userID {
		return m.conv, nil
	}
	for _, conv := range m.created {
		if conv.PublicID == publicID && conv.UserID == userID {
			return conv, nil
		}
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
		"conversation not found", nil, "test-not-found")
}

func (m *mockRepo) List(ctx context.Context, userID string, p conversation.Pagination) ([]conversation.Summary, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID, p)
	}
	return nil, 0, nil
}

func (m *mockRepo) SoftDelete(ctx context.Context, publicID, userID string) (*conversation.Conversation, error) {
	return m.FindByPublicID(ctx, publicID, userID)
}

func (m *mockRepo) UpdateStatus(_ context.Context, _ uint, status conversation.Status, _ *string) error {
	m.statusUpdates = append(m.statusUpdates, status)
	return nil
}

func (m *mockRepo) Touch(context.Context, uint) error { return nil }

type mockItems struct {
	created []*conversation.Item
}

func (m *mockItems) Create(_ context.Context, item *conversation.Item) error {
	m.created = append(m.created, item)
	return nil
}

func (m *mockItems) ListByConversationID(context.Context, uint) ([]conversation.Item, error) {
	return nil, nil
}

func (m *mockItems) FindAssistantReply(context.Context, uint, string) (*conversation.Item, error) {
	return nil, nil
}

type enqueueRecord struct {
	params conversation.EnqueueParams
	// order observed at enqueue time
	itemsPersisted int
	statusUpdates  int
}

type mockEnqueuer struct {
	repo    *mockRepo
	items   *mockItems
	records []enqueueRecord
	err     error
}

func (m *mockEnqueuer) EnqueueMessage(_ context.Context, params conversation.EnqueueParams) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, enqueueRecord{
		params:         params,
		itemsPersisted: len(m.items.created),
		statusUpdates:  len(m.repo.statusUpdates),
	})
	return nil
}

func newService(repo *mockRepo, items *mockItems, enq *mockEnqueuer) *conversation.ServiceImpl {
	return conversation.NewService(repo, items, enq, zerolog.Nop())
}

func TestSendMessagePersistsThenEnqueues(t *testing.T) {
	repo := &mockRepo{conv: &conversation.Conversation{ID: 7, PublicID: "conv_1", UserID: "user_1", Status: conversation.StatusIdle}}
	items := &mockItems{}
	enq := &mockEnqueuer{repo: repo, items: items}
	svc := newService(repo, items, enq)

	receipt, err := svc.SendMessage(context.Background(), conversation.SendParams{
		ConversationID: "conv_1",
		UserID:         "user_1",
		Content:        "  remember the milk  ",
	})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if len(items.created) != 1 {
		t.Fatalf("expected 1 persisted item, got %d", len(items.created))
	}
	userMsg := items.created[0]
	if userMsg.Role != conversation.RoleUser || userMsg.Content != "remember the milk" {
		t.Errorf("user item not persisted with trimmed content: %+v", userMsg)
	}

	if len(repo.statusUpdates) != 1 || repo.statusUpdates[0] != conversation.StatusProcessing {
		t.Errorf("conversation must be flagged processing before the reply exists: %v", repo.statusUpdates)
	}
	if receipt.Conversation.Status != conversation.StatusProcessing {
		t.Errorf("receipt should reflect the processing state")
	}

	if len(enq.records) != 1 {
		t.Fatalf("expected 1 enqueued job, got %d", len(enq.records))
	}
	rec := enq.records[0]
	if rec.itemsPersisted != 1 || rec.statusUpdates != 1 {
		t.Errorf("job enqueued before the item and status landed: %+v", rec)
	}
	if rec.params.UserMessageID != userMsg.PublicID {
		t.Errorf("job must reference the persisted user message")
	}
	if receipt.UserMessage.PublicID != userMsg.PublicID {
		t.Errorf("receipt must return the persisted user message")
	}
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	repo := &mockRepo{conv: &conversation.Conversation{ID: 1, PublicID: "conv_1", UserID: "user_1"}}
	items := &mockItems{}
	enq := &mockEnqueuer{repo: repo, items: items}
	svc := newService(repo, items, enq)

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := svc.SendMessage(context.Background(), conversation.SendParams{
			ConversationID: "conv_1",
			UserID:         "user_1",
			Content:        content,
		})
		if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
			t.Errorf("content %q should fail validation, got %v", content, err)
		}
	}
	if len(items.created) != 0 || len(enq.records) != 0 {
		t.Errorf("nothing should be persisted or enqueued for empty content")
	}
}

func TestSendMessageUnknownConversation(t *testing.T) {
	repo := &mockRepo{}
	items := &mockItems{}
	enq := &mockEnqueuer{repo: repo, items: items}
	svc := newService(repo, items, enq)

	_, err := svc.SendMessage(context.Background(), conversation.SendParams{
		ConversationID: "conv_missing",
		UserID:         "user_1",
		Content:        "hi",
	})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestSendMessageEnqueueFailure(t *testing.T) {
	repo := &mockRepo{conv: &conversation.Conversation{ID: 1, PublicID: "conv_1", UserID: "user_1"}}
	items := &mockItems{}
	enq := &mockEnqueuer{repo: repo, items: items, err: errors.New("queue unavailable")}
	svc := newService(repo, items, enq)

	_, err := svc.SendMessage(context.Background(), conversation.SendParams{
		ConversationID: "conv_1",
		UserID:         "user_1",
		Content:        "hi",
	})
	if err == nil {
		t.Fatalf("enqueue failure must surface")
	}
	// The user message stays persisted even though the job was lost.
	if len(items.created) != 1 {
		t.Errorf("user item should survive an enqueue failure")
	}
}

func TestCreateWithInitialMessage(t *testing.T) {
	repo := &mockRepo{}
	items := &mockItems{}
	enq := &mockEnqueuer{repo: repo, items: items}
	svc := newService(repo, items, enq)

	message := "hello"
	conv, err := svc.Create(context.Background(), conversation.CreateParams{
		UserID:         "user_1",
		InitialMessage: &message,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 created conversation, got %d", len(repo.created))
	}
	if len(enq.records) != 1 {
		t.Errorf("initial message should be submitted")
	}
	if conv.Status != conversation.StatusProcessing {
		t.Errorf("conversation with an initial message should be processing")
	}
}

func TestListClampsPagination(t *testing.T) {
	var seen conversation.Pagination
	repo := &mockRepo{
		listFunc: func(_ context.Context, _ string, p conversation.Pagination) ([]conversation.Summary, int64, error) {
			seen = p
			return nil, 0, nil
		},
	}
	svc := newService(repo, &mockItems{}, &mockEnqueuer{repo: repo, items: &mockItems{}})

	cases := []struct {
		in   conversation.Pagination
		want conversation.Pagination
	}{
		{conversation.Pagination{Page: 0, PageSize: 0}, conversation.Pagination{Page: 1, PageSize: 20}},
		{conversation.Pagination{Page: -3, PageSize: 500}, conversation.Pagination{Page: 1, PageSize: 100}},
		{conversation.Pagination{Page: 2, PageSize: 10}, conversation.Pagination{Page: 2, PageSize: 10}},
	}
	for _, tc := range cases {
		if _, err := svc.List(context.Background(), "user_1", tc.in); err != nil {
			t.Fatalf("List: %v", err)
		}
		if seen != tc.want {
			t.Errorf("pagination %+v clamped to %+v, want %+v", tc.in, seen, tc.want)
		}
	}
}
