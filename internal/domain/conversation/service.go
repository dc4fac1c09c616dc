package conversation

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/griffinm/jotter/internal/utils/platformerrors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service exposes the caller-facing conversation operations.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*Conversation, error)
	Get(ctx context.Context, publicID, userID string) (*Conversation, error)
	List(ctx context.Context, userID string, p Pagination) (*Page, error)
	Delete(ctx context.Context, publicID, userID string) (*Conversation, error)
	SendMessage(ctx context.Context, params SendParams) (*SendReceipt, error)
}

// Enqueuer hands a message-processing job to the durable queue.
type Enqueuer interface {
	EnqueueMessage(ctx context.Context, params EnqueueParams) error
}

// EnqueueParams is the job payload consumed by the worker.
type EnqueueParams struct {
	ConversationID string
	UserID         string
	Content        string
	UserMessageID  string
}

// CreateParams describes a new conversation. When InitialMessage is set the
// message is submitted in the same call.
type CreateParams struct {
	UserID         string
	Title          *string
	InitialMessage *string
}

// SendParams describes an inbound user message.
type SendParams struct {
	ConversationID string
	UserID         string
	Content        string
}

// SendReceipt confirms the persisted user message. Processing is
// asynchronous; the assistant reply arrives as conversation items.
type SendReceipt struct {
	Conversation *Conversation `json:"conversation"`
	UserMessage  *Item         `json:"user_message"`
}

// ServiceImpl provides the domain implementation.
type ServiceImpl struct {
	conversations Repository
	items         ItemRepository
	enqueuer      Enqueuer
	log           zerolog.Logger
}

// NewService wires dependencies.
func NewService(conversations Repository, items ItemRepository, enqueuer Enqueuer, log zerolog.Logger) *ServiceImpl {
	return &ServiceImpl{
		conversations: conversations,
		items:         items,
		enqueuer:      enqueuer,
		log:           log.With().Str("component", "conversation-service").Logger(),
	}
}

var _ Service = (*ServiceImpl)(nil)

// Create starts a conversation, optionally submitting its first message.
func (s *ServiceImpl) Create(ctx context.Context, params CreateParams) (*Conversation, error) {
	conv := NewConversation(params.UserID, params.Title)
	if err := s.conversations.Create(ctx, conv); err != nil {
		return nil, err
	}

	if params.InitialMessage != nil && strings.TrimSpace(*params.InitialMessage) != "" {
		receipt, err := s.SendMessage(ctx, SendParams{
			ConversationID: conv.PublicID,
			UserID:         params.UserID,
			Content:        *params.InitialMessage,
		})
		if err != nil {
			return nil, err
		}
		return receipt.Conversation, nil
	}

	return conv, nil
}

// Get returns the conversation with its chronological transcript.
func (s *ServiceImpl) Get(ctx context.Context, publicID, userID string) (*Conversation, error) {
	return s.conversations.FindByPublicID(ctx, publicID, userID)
}

// List returns paginated summaries ordered by most recent activity.
func (s *ServiceImpl) List(ctx context.Context, userID string, p Pagination) (*Page, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}

	summaries, total, err := s.conversations.List(ctx, userID, p)
	if err != nil {
		return nil, err
	}

	return &Page{
		Conversations: summaries,
		Total:         total,
		Page:          p.Page,
		PageSize:      p.PageSize,
	}, nil
}

// Delete soft-deletes an owned conversation.
func (s *ServiceImpl) Delete(ctx context.Context, publicID, userID string) (*Conversation, error) {
	return s.conversations.SoftDelete(ctx, publicID, userID)
}

// SendMessage persists the user's message, flags the conversation as
// processing, and enqueues the job. The user item is written before anything
// else so it survives a processing failure.
func (s *ServiceImpl) SendMessage(ctx context.Context, params SendParams) (*SendReceipt, error) {
	content := strings.TrimSpace(params.Content)
	if content == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"message content is empty",
			nil,
			"send-message-empty-content",
		)
	}

	conv, err := s.conversations.FindByPublicID(ctx, params.ConversationID, params.UserID)
	if err != nil {
		return nil, err
	}

	userItem := NewItem(conv.ID, RoleUser, content)
	if err := s.items.Create(ctx, userItem); err != nil {
		return nil, err
	}

	if err := s.conversations.UpdateStatus(ctx, conv.ID, StatusProcessing, nil); err != nil {
		return nil, err
	}
	conv.Status = StatusProcessing
	conv.ErrorMessage = nil

	if err := s.enqueuer.EnqueueMessage(ctx, EnqueueParams{
		ConversationID: conv.PublicID,
		UserID:         params.UserID,
		Content:        content,
		UserMessageID:  userItem.PublicID,
	}); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("conversation_id", conv.PublicID).
		Str("user_message_id", userItem.PublicID).
		Msg("message enqueued")

	return &SendReceipt{Conversation: conv, UserMessage: userItem}, nil
}
