package models

import (
	"time"

	"gorm.io/gorm"
)

// TranscriptModel is the persistence model for mirrored transcript segments.
// Rows are soft-deleted; tombstones stay out of default queries.
type TranscriptModel struct {
	ID           string `gorm:"primarykey;size:36"`
	MeetingID    string `gorm:"not null;size:36;index"`
	Speaker      string `gorm:"size:100"`
	Text         string `gorm:"type:text"`
	Timestamp    float64
	LanguageCode *string `gorm:"size:10"`
	Confidence   *float64
	CreatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (TranscriptModel) TableName() string {
	return "transcripts"
}
