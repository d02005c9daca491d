package billing

import "context"

// PlanRepository is the persistence contract for the plan catalog.
type PlanRepository interface {
	Create(ctx context.Context, p *Plan) error
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetByName(ctx context.Context, name string) (*Plan, error)
	GetByStripePriceID(ctx context.Context, priceID string) (*Plan, error)
	ListActive(ctx context.Context) ([]*Plan, error)
	List(ctx context.Context, page, perPage int) ([]*Plan, int64, error)
	Update(ctx context.Context, p *Plan) error
	Delete(ctx context.Context, id uint) error
}

// SubscriptionRepository is the persistence contract for local subscription
// records.
type SubscriptionRepository interface {
	Create(ctx context.Context, s *Subscription) error
	GetActiveByUser(ctx context.Context, userID string) (*Subscription, error)
	GetByStripeID(ctx context.Context, stripeID string) (*Subscription, error)
	Update(ctx context.Context, s *Subscription) error
}
