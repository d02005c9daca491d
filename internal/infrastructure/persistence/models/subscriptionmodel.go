package models

import (
	"time"
)

// SubscriptionModel is the persistence model for local subscription records.
type SubscriptionModel struct {
	ID                 uint   `gorm:"primarykey"`
	UserID             string `gorm:"not null;size:36;index"`
	Type               string `gorm:"not null;size:20;default:default"`
	StripeID           string `gorm:"size:100;index"`
	StripeStatus       string `gorm:"size:30;index"`
	StripePrice        string `gorm:"size:100"`
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}
