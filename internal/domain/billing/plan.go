// Package billing contains the plan catalog and local subscription records.
// Subscription state of record lives at the payment provider; local rows are
// the backend's working copy, updated by webhooks and the fallback grant.
package billing

import (
	"fmt"
	"time"

	"github.com/meetscribe/meetscribe/internal/shared/biztime"
)

// Interval is the billing period of a plan.
type Interval string

const (
	IntervalMonth Interval = "month"
	IntervalYear  Interval = "year"
)

func (i Interval) IsValid() bool {
	return i == IntervalMonth || i == IntervalYear
}

// Plan is one purchasable tier: external product/price identifiers plus the
// usage caps the backend enforces.
type Plan struct {
	id              uint
	name            string
	stripeProductID string
	stripePriceID   string
	interval        Interval
	amount          int64 // minor currency units
	currency        string
	trialDays       int
	quota           *int // monthly meeting cap, nil = unlimited
	minutes         *int // monthly minute cap, nil = unlimited
	isActive        bool
	createdAt       time.Time
	updatedAt       time.Time
}

// NewPlan creates a plan for the catalog.
func NewPlan(name, stripeProductID, stripePriceID string, interval Interval, amount int64, currency string, trialDays int, quota, minutes *int) (*Plan, error) {
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if !interval.IsValid() {
		return nil, fmt.Errorf("invalid billing interval %q", interval)
	}
	if amount < 0 {
		return nil, fmt.Errorf("plan amount cannot be negative")
	}
	if currency == "" {
		return nil, fmt.Errorf("plan currency is required")
	}
	now := biztime.NowUTC()
	return &Plan{
		name:            name,
		stripeProductID: stripeProductID,
		stripePriceID:   stripePriceID,
		interval:        interval,
		amount:          amount,
		currency:        currency,
		trialDays:       trialDays,
		quota:           quota,
		minutes:         minutes,
		isActive:        true,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructPlan rebuilds a plan from persistence.
func ReconstructPlan(
	id uint,
	name, stripeProductID, stripePriceID string,
	interval Interval,
	amount int64,
	currency string,
	trialDays int,
	quota, minutes *int,
	isActive bool,
	createdAt, updatedAt time.Time,
) (*Plan, error) {
	if id == 0 {
		return nil, fmt.Errorf("plan id cannot be zero")
	}
	return &Plan{
		id:              id,
		name:            name,
		stripeProductID: stripeProductID,
		stripePriceID:   stripePriceID,
		interval:        interval,
		amount:          amount,
		currency:        currency,
		trialDays:       trialDays,
		quota:           quota,
		minutes:         minutes,
		isActive:        isActive,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

func (p *Plan) ID() uint                { return p.id }
func (p *Plan) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("plan id already set")
	}
	p.id = id
	return nil
}
func (p *Plan) Name() string            { return p.name }
func (p *Plan) StripeProductID() string { return p.stripeProductID }
func (p *Plan) StripePriceID() string   { return p.stripePriceID }
func (p *Plan) Interval() Interval      { return p.interval }
func (p *Plan) Amount() int64           { return p.amount }
func (p *Plan) Currency() string        { return p.currency }
func (p *Plan) TrialDays() int          { return p.trialDays }
func (p *Plan) Quota() *int             { return p.quota }
func (p *Plan) Minutes() *int           { return p.minutes }
func (p *Plan) IsActive() bool          { return p.isActive }
func (p *Plan) CreatedAt() time.Time    { return p.createdAt }
func (p *Plan) UpdatedAt() time.Time    { return p.updatedAt }

func (p *Plan) Activate() {
	p.isActive = true
	p.updatedAt = biztime.NowUTC()
}

func (p *Plan) Deactivate() {
	p.isActive = false
	p.updatedAt = biztime.NowUTC()
}

// UpdateDetails replaces the mutable catalog attributes.
func (p *Plan) UpdateDetails(name string, amount int64, trialDays int, quota, minutes *int) error {
	if name == "" {
		return fmt.Errorf("plan name is required")
	}
	if amount < 0 {
		return fmt.Errorf("plan amount cannot be negative")
	}
	p.name = name
	p.amount = amount
	p.trialDays = trialDays
	p.quota = quota
	p.minutes = minutes
	p.updatedAt = biztime.NowUTC()
	return nil
}
