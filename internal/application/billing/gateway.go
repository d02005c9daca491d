// Package billing implements checkout, webhook handling and subscription
// lookup on top of the payment provider.
package billing

import (
	"context"
	"encoding/json"
)

// CheckoutParams describe one hosted checkout session to create.
type CheckoutParams struct {
	PriceID             string
	CustomerEmail       string
	ClientReferenceID   string
	TrialDays           int
	AllowPromotionCodes bool
}

// CheckoutSession is the provider's created session.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Gateway creates hosted checkout sessions at the payment provider.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
}

// Webhook event types the backend handles.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// Event is one provider webhook notification.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// CheckoutObject is the event payload for a completed checkout session.
type CheckoutObject struct {
	ID                string `json:"id"`
	ClientReferenceID string `json:"client_reference_id"`
	CustomerEmail     string `json:"customer_email"`
	Subscription      string `json:"subscription"`
}

// SubscriptionObject is the event payload for subscription lifecycle events.
type SubscriptionObject struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
	Items              struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

// WebhookVerifier authenticates a raw webhook payload and parses the event.
type WebhookVerifier interface {
	ConstructEvent(payload []byte, signatureHeader string) (*Event, error)
}
