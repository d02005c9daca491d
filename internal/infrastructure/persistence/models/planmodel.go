package models

import (
	"time"

	"gorm.io/gorm"
)

// PlanModel is the persistence model for the billing plan catalog.
type PlanModel struct {
	ID              uint   `gorm:"primarykey"`
	Name            string `gorm:"uniqueIndex;not null;size:100"`
	StripeProductID string `gorm:"size:100"`
	StripePriceID   string `gorm:"size:100;index"`
	BillingInterval string `gorm:"not null;size:10;default:month"`
	Amount          int64  `gorm:"not null"`
	Currency        string `gorm:"not null;size:3;default:usd"`
	TrialDays       int    `gorm:"default:0"`
	Quota           *int
	Minutes         *int
	IsActive        bool `gorm:"default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (PlanModel) TableName() string {
	return "plans"
}
