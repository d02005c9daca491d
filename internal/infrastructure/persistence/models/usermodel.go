package models

import (
	"time"

	"gorm.io/gorm"
)

// UserModel is the persistence model for backend accounts.
type UserModel struct {
	ID                    uint   `gorm:"primarykey"`
	Email                 string `gorm:"uniqueIndex;not null;size:255"`
	Name                  string `gorm:"size:255"`
	PasswordHash          string `gorm:"not null;size:255"`
	Role                  string `gorm:"not null;size:20;default:user"`
	EmailVerified         bool   `gorm:"default:false"`
	VerificationToken     *string `gorm:"size:64;index"`
	VerificationExpiresAt *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
	DeletedAt             gorm.DeletedAt `gorm:"index"`
}

func (UserModel) TableName() string {
	return "users"
}
