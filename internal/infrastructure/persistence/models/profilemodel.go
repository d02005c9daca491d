package models

import (
	"time"
)

// ProfileModel is the persistence model for mirrored end-user profiles.
// The primary key is the remote UUID, matching the upstream auth user id.
type ProfileModel struct {
	ID        string `gorm:"primarykey;size:36"`
	Email     string `gorm:"not null;size:255;index"`
	FullName  string `gorm:"size:255"`
	AvatarURL string `gorm:"size:500"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProfileModel) TableName() string {
	return "profiles"
}
