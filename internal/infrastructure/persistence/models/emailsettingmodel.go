package models

import (
	"time"
)

// EmailSettingModel is the persistence model for email templates.
type EmailSettingModel struct {
	ID        uint   `gorm:"primarykey"`
	Key       string `gorm:"uniqueIndex;not null;size:50"`
	Subject   string `gorm:"not null;size:255"`
	Body      string `gorm:"type:text"`
	IsActive  bool   `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (EmailSettingModel) TableName() string {
	return "email_settings"
}
