package conversation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/griffinm/jotter/internal/domain/llm"
)

// Status tracks whether the conversation is resting, being processed by a
// background job, or stopped on a processing failure.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusError      Status = "error"
)

// ItemRole indicates who authored the conversation item.
type ItemRole string

const (
	RoleUser      ItemRole = "user"
	RoleAssistant ItemRole = "assistant"
	RoleSystem    ItemRole = "system"
	RoleTool      ItemRole = "tool"
)

// Conversation represents a persisted chat thread owned by a user.
type Conversation struct {
	ID           uint       `json:"-"`
	PublicID     string     `json:"id"`
	UserID       string     `json:"-"`
	Title        *string    `json:"title,omitempty"`
	Status       Status     `json:"status"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	Items        []Item     `json:"items,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
}

// Item is one turn in a conversation. Items are append-only; they are never
// mutated or deleted after creation.
type Item struct {
	ID             uint           `json:"-"`
	ConversationID uint           `json:"-"`
	PublicID       string         `json:"id"`
	Role           ItemRole       `json:"role"`
	Content        string         `json:"content"`
	ToolCalls      []llm.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID     *string        `json:"tool_call_id,omitempty"`
	ToolName       *string        `json:"tool_name,omitempty"`
	ComponentData  *ComponentData `json:"component_data,omitempty"`
	ReplyToItemID  *string        `json:"reply_to_item_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// ComponentData is an opaque payload the presentation layer uses to render
// rich cards. The orchestrator passes it through without interpretation.
type ComponentData struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Summary is the listing shape: conversation metadata plus at most one item,
// the first one, for preview.
type Summary struct {
	Conversation
	FirstItem *Item `json:"first_item,omitempty"`
}

// Pagination carries 1-based page selection for listing operations.
type Pagination struct {
	Page     int
	PageSize int
}

// Page is a paginated listing result.
type Page struct {
	Conversations []Summary `json:"conversations"`
	Total         int64     `json:"total"`
	Page          int       `json:"page"`
	PageSize      int       `json:"page_size"`
}

// NewConversation creates a conversation in its resting state.
func NewConversation(userID string, title *string) *Conversation {
	now := time.Now()
	return &Conversation{
		PublicID:  NewPublicID("conv"),
		UserID:    userID,
		Title:     title,
		Status:    StatusIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewItem creates a conversation item with a fresh public ID.
func NewItem(conversationID uint, role ItemRole, content string) *Item {
	return &Item{
		ConversationID: conversationID,
		PublicID:       NewPublicID("item"),
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now(),
	}
}

// NewPublicID builds a prefixed public identifier like "conv_<uuid>".
func NewPublicID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}

// MarshalToolCalls serializes tool calls for storage; nil stays nil so the
// column remains NULL for items without calls.
func MarshalToolCalls(calls []llm.ToolCall) ([]byte, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	return json.Marshal(calls)
}
