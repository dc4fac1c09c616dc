package entities

import "time"

// MessageJob is one durable unit of agent work: a user message waiting to be,
// or being, processed.
type MessageJob struct {
	ID             uint    `gorm:"primaryKey"`
	PublicID       string  `gorm:"uniqueIndex;size:64;not null"`
	ConversationID string  `gorm:"index;size:64;not null"`
	UserID         string  `gorm:"size:64;not null"`
	Content        string  `gorm:"type:text;not null"`
	UserMessageID  string  `gorm:"size:64;not null"`
	Status         string  `gorm:"index;size:16;not null;default:queued"`
	Attempts       int     `gorm:"not null;default:0"`
	MaxAttempts    int     `gorm:"not null;default:3"`
	LastError      *string `gorm:"type:text"`
	QueuedAt       time.Time
	StartedAt      *time.Time
	FinishedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName overrides the gorm default.
func (MessageJob) TableName() string {
	return "message_jobs"
}
