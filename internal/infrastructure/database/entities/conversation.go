package entities

import (
	"time"

	"gorm.io/gorm"

	"github.com/griffinm/jotter/internal/domain/conversation"
)

// Conversation is the database representation of a chat thread.
type Conversation struct {
	ID           uint    `gorm:"primaryKey"`
	PublicID     string  `gorm:"uniqueIndex;size:64;not null"`
	UserID       string  `gorm:"index;size:64;not null"`
	Title        *string `gorm:"size:255"`
	Status       string  `gorm:"size:16;not null;default:idle"`
	ErrorMessage *string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`

	Items []ConversationItem `gorm:"foreignKey:ConversationID"`
}

// TableName overrides the gorm default.
func (Conversation) TableName() string {
	return "conversations"
}

// ToDomain converts the entity to the domain model.
func (e *Conversation) ToDomain() (*conversation.Conversation, error) {
	conv := &conversation.Conversation{
		ID:           e.ID,
		PublicID:     e.PublicID,
		UserID:       e.UserID,
		Title:        e.Title,
		Status:       conversation.Status(e.Status),
		ErrorMessage: e.ErrorMessage,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		conv.DeletedAt = &t
	}
	for i := range e.Items {
		item, err := e.Items[i].ToDomain()
		if err != nil {
			return nil, err
		}
		conv.Items = append(conv.Items, *item)
	}
	return conv, nil
}

// NewConversationEntity converts the domain model to its entity.
func NewConversationEntity(conv *conversation.Conversation) *Conversation {
	return &Conversation{
		ID:           conv.ID,
		PublicID:     conv.PublicID,
		UserID:       conv.UserID,
		Title:        conv.Title,
		Status:       string(conv.Status),
		ErrorMessage: conv.ErrorMessage,
		CreatedAt:    conv.CreatedAt,
		UpdatedAt:    conv.UpdatedAt,
	}
}
