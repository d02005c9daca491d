package models

import (
	"time"

	"gorm.io/datatypes"
)

// MeetingSummaryModel is the persistence model for meeting summaries. The
// unique index on MeetingID enforces at most one summary per meeting.
type MeetingSummaryModel struct {
	ID          string `gorm:"primarykey;size:36"`
	MeetingID   string `gorm:"not null;size:36;uniqueIndex"`
	SummaryText string `gorm:"type:text"`
	ActionItems datatypes.JSON
	UserNotes   string `gorm:"type:text"`
	CreatedAt   time.Time
}

func (MeetingSummaryModel) TableName() string {
	return "meeting_summaries"
}
