package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/griffinm/jotter/internal/domain/conversation"
	"github.com/griffinm/jotter/internal/domain/llm"
)

// ConversationItem is the database representation of one conversation turn.
// Rows are append-only.
type ConversationItem struct {
	ID             uint           `gorm:"primaryKey"`
	ConversationID uint           `gorm:"index;not null"`
	PublicID       string         `gorm:"uniqueIndex;size:64;not null"`
	Role           string         `gorm:"size:16;not null"`
	Content        string         `gorm:"type:text"`
	ToolCalls      datatypes.JSON `gorm:"type:jsonb"`
	ToolCallID     *string        `gorm:"size:64"`
	ToolName       *string        `gorm:"size:64"`
	ComponentData  datatypes.JSON `gorm:"type:jsonb"`
	ReplyToItemID  *string        `gorm:"index;size:64"`
	CreatedAt      time.Time      `gorm:"index"`
}

// TableName overrides the gorm default.
func (ConversationItem) TableName() string {
	return "conversation_items"
}

// ToDomain converts the entity to the domain model.
func (e *ConversationItem) ToDomain() (*conversation.Item, error) {
	item := &conversation.Item{
		ID:             e.ID,
		ConversationID: e.ConversationID,
		PublicID:       e.PublicID,
		Role:           conversation.ItemRole(e.Role),
		Content:        e.Content,
		ToolCallID:     e.ToolCallID,
		ToolName:       e.ToolName,
		ReplyToItemID:  e.ReplyToItemID,
		CreatedAt:      e.CreatedAt,
	}
	if len(e.ToolCalls) > 0 {
		var calls []llm.ToolCall
		if err := json.Unmarshal(e.ToolCalls, &calls); err != nil {
			return nil, fmt.Errorf("unmarshal tool calls for item %s: %w", e.PublicID, err)
		}
		item.ToolCalls = calls
	}
	if len(e.ComponentData) > 0 {
		var component conversation.ComponentData
		if err := json.Unmarshal(e.ComponentData, &component); err != nil {
			return nil, fmt.Errorf("unmarshal component data for item %s: %w", e.PublicID, err)
		}
		item.ComponentData = &component
	}
	return item, nil
}

// NewConversationItemEntity converts the domain model to its entity.
func NewConversationItemEntity(item *conversation.Item) (*ConversationItem, error) {
	entity := &ConversationItem{
		ID:             item.ID,
		ConversationID: item.ConversationID,
		PublicID:       item.PublicID,
		Role:           string(item.Role),
		Content:        item.Content,
		ToolCallID:     item.ToolCallID,
		ToolName:       item.ToolName,
		ReplyToItemID:  item.ReplyToItemID,
		CreatedAt:      item.CreatedAt,
	}

	calls, err := conversation.MarshalToolCalls(item.ToolCalls)
	if err != nil {
		return nil, fmt.Errorf("marshal tool calls for item %s: %w", item.PublicID, err)
	}
	entity.ToolCalls = calls

	if item.ComponentData != nil {
		raw, err := json.Marshal(item.ComponentData)
		if err != nil {
			return nil, fmt.Errorf("marshal component data for item %s: %w", item.PublicID, err)
		}
		entity.ComponentData = raw
	}

	return entity, nil
}
