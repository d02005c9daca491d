package models

import (
	"time"
)

// ChatMessageModel is the persistence model for mirrored chat messages.
type ChatMessageModel struct {
	ID        string `gorm:"primarykey;size:36"`
	MeetingID string `gorm:"not null;size:36;index"`
	Role      string `gorm:"not null;size:20;default:user"`
	Content   string `gorm:"type:text"`
	CreatedAt time.Time
}

func (ChatMessageModel) TableName() string {
	return "chat_messages"
}
