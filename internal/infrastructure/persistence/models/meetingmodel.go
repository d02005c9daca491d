package models

import (
	"time"
)

// MeetingModel is the persistence model for mirrored meetings.
type MeetingModel struct {
	ID              string `gorm:"primarykey;size:36"`
	UserID          string `gorm:"not null;size:36;index"`
	Title           string `gorm:"size:500"`
	Status          string `gorm:"not null;size:20;default:scheduled;index"`
	StartedAt       *time.Time
	EndedAt         *time.Time
	DurationSeconds *int
	CreatedAt       time.Time
}

func (MeetingModel) TableName() string {
	return "meetings"
}
