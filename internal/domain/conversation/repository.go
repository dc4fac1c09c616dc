package conversation

import "context"

// Repository persists conversation metadata. Implementations must exclude
// soft-deleted rows from every read.
type Repository interface {
	Create(ctx context.Context, conv *Conversation) error

	// FindByPublicID fetches an owned conversation with its items in
	// chronological order. Missing, foreign-owned, and soft-deleted
	// conversations all surface as NotFound.
	FindByPublicID(ctx context.Context, publicID, userID string) (*Conversation, error)

	// List returns conversation summaries for the user ordered by updated_at
	// descending, each carrying only its first item for preview.
	List(ctx context.Context, userID string, p Pagination) ([]Summary, int64, error)

	// SoftDelete marks an owned conversation deleted and returns it. The row
	// and its items persist for audit.
	SoftDelete(ctx context.Context, publicID, userID string) (*Conversation, error)

	// UpdateStatus transitions the conversation status; errMsg is stored for
	// StatusError and cleared otherwise.
	UpdateStatus(ctx context.Context, id uint, status Status, errMsg *string) error

	// Touch bumps updated_at so listings order by recent activity.
	Touch(ctx context.Context, id uint) error
}

// ItemRepository persists conversation items.
type ItemRepository interface {
	Create(ctx context.Context, item *Item) error

	// ListByConversationID returns the full transcript ordered by created_at
	// ascending.
	ListByConversationID(ctx context.Context, conversationID uint) ([]Item, error)

	// FindAssistantReply returns the assistant item answering the given user
	// message, or nil when processing has not completed yet. Used to make job
	// redelivery idempotent.
	FindAssistantReply(ctx context.Context, conversationID uint, userMessageID string) (*Item, error)
}
