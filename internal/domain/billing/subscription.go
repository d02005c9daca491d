package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meetscribe/meetscribe/internal/shared/biztime"
)

// Subscription types. A starter subscription is the fallback grant created
// locally when a user has no active provider subscription.
const (
	TypeDefault = "default"
	TypeStarter = "starter"
)

// Provider-reported subscription statuses the backend cares about.
const (
	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
)

// Subscription is the local billing record for one user.
type Subscription struct {
	id                 uint
	userID             string
	subscriptionType   string
	stripeID           string
	stripeStatus       string
	stripePrice        string
	currentPeriodStart *time.Time
	currentPeriodEnd   *time.Time
	createdAt          time.Time
	updatedAt          time.Time
}

// NewSubscription creates a provider-backed subscription record.
func NewSubscription(userID, stripeID, stripeStatus, stripePrice string, periodStart, periodEnd *time.Time) (*Subscription, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	if stripeID == "" {
		return nil, fmt.Errorf("subscription id from provider is required")
	}
	now := biztime.NowUTC()
	return &Subscription{
		userID:             userID,
		subscriptionType:   TypeDefault,
		stripeID:           stripeID,
		stripeStatus:       stripeStatus,
		stripePrice:        stripePrice,
		currentPeriodStart: periodStart,
		currentPeriodEnd:   periodEnd,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// NewStarterSubscription creates the fallback grant for a user with no
// active subscription.
func NewStarterSubscription(userID string) (*Subscription, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	now := biztime.NowUTC()
	return &Subscription{
		userID:           userID,
		subscriptionType: TypeStarter,
		stripeStatus:     StatusActive,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// ReconstructSubscription rebuilds a subscription from persistence.
func ReconstructSubscription(
	id uint,
	userID, subscriptionType, stripeID, stripeStatus, stripePrice string,
	periodStart, periodEnd *time.Time,
	createdAt, updatedAt time.Time,
) (*Subscription, error) {
	if id == 0 {
		return nil, fmt.Errorf("subscription id cannot be zero")
	}
	return &Subscription{
		id:                 id,
		userID:             userID,
		subscriptionType:   subscriptionType,
		stripeID:           stripeID,
		stripeStatus:       stripeStatus,
		stripePrice:        stripePrice,
		currentPeriodStart: periodStart,
		currentPeriodEnd:   periodEnd,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}, nil
}

func (s *Subscription) ID() uint { return s.id }
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription id already set")
	}
	s.id = id
	return nil
}
func (s *Subscription) UserID() string                 { return s.userID }
func (s *Subscription) Type() string                   { return s.subscriptionType }
func (s *Subscription) StripeID() string               { return s.stripeID }
func (s *Subscription) StripeStatus() string           { return s.stripeStatus }
func (s *Subscription) StripePrice() string            { return s.stripePrice }
func (s *Subscription) CurrentPeriodStart() *time.Time { return s.currentPeriodStart }
func (s *Subscription) CurrentPeriodEnd() *time.Time   { return s.currentPeriodEnd }
func (s *Subscription) CreatedAt() time.Time           { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time           { return s.updatedAt }

// IsActive reports whether the subscription currently grants access.
func (s *Subscription) IsActive() bool {
	switch s.stripeStatus {
	case StatusActive, StatusTrialing, StatusPastDue:
	default:
		return false
	}
	if s.currentPeriodEnd != nil && s.currentPeriodEnd.Before(biztime.NowUTC()) {
		return false
	}
	return true
}

// SyncFromProvider replaces the provider-reported state after a webhook.
func (s *Subscription) SyncFromProvider(status, price string, periodStart, periodEnd *time.Time) {
	s.stripeStatus = status
	if price != "" {
		s.stripePrice = price
	}
	s.currentPeriodStart = periodStart
	s.currentPeriodEnd = periodEnd
	s.updatedAt = biztime.NowUTC()
}

// Cancel marks the subscription canceled.
func (s *Subscription) Cancel() {
	s.stripeStatus = StatusCanceled
	s.updatedAt = biztime.NowUTC()
}
