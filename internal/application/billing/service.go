package billing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/meetscribe/meetscribe/internal/domain/billing"
	"github.com/meetscribe/meetscribe/internal/domain/profile"
	"github.com/meetscribe/meetscribe/internal/shared/errors"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

// Notifier sends the billing lifecycle emails. Implementations must not
// fail the calling request on delivery errors.
type Notifier interface {
	SendSubscriptionConfirmation(ctx context.Context, to, name, planName string)
}

// PlanParams are the attributes of a plan accepted from the admin API.
type PlanParams struct {
	Name            string
	StripeProductID string
	StripePriceID   string
	Interval        string
	Amount          int64
	Currency        string
	TrialDays       int
	Quota           *int
	Minutes         *int
}

// CheckoutRequest asks for a hosted checkout session for one user and plan.
type CheckoutRequest struct {
	UserID string
	PlanID uint
}

// Service orchestrates the plan catalog, checkout and webhook-driven
// subscription state on top of the payment provider gateway.
type Service struct {
	plans    billing.PlanRepository
	subs     billing.SubscriptionRepository
	profiles profile.Repository
	gateway  Gateway
	verifier WebhookVerifier
	notifier Notifier
	logger   logger.Interface
}

func NewService(
	plans billing.PlanRepository,
	subs billing.SubscriptionRepository,
	profiles profile.Repository,
	gateway Gateway,
	verifier WebhookVerifier,
	notifier Notifier,
	logger logger.Interface,
) *Service {
	return &Service{
		plans:    plans,
		subs:     subs,
		profiles: profiles,
		gateway:  gateway,
		verifier: verifier,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *Service) CreatePlan(ctx context.Context, params PlanParams) (*billing.Plan, error) {
	existing, err := s.plans.GetByName(ctx, params.Name)
	if err != nil {
		s.logger.Errorw("failed to check plan name", "name", params.Name, "error", err)
		return nil, errors.NewInternalError("failed to create plan")
	}
	if existing != nil {
		return nil, errors.NewConflictError("plan with this name already exists")
	}

	p, err := billing.NewPlan(
		params.Name,
		params.StripeProductID,
		params.StripePriceID,
		billing.Interval(params.Interval),
		params.Amount,
		params.Currency,
		params.TrialDays,
		params.Quota,
		params.Minutes,
	)
	if err != nil {
		return nil, errors.NewValidationError("invalid plan", err.Error())
	}

	if err := s.plans.Create(ctx, p); err != nil {
		s.logger.Errorw("failed to create plan", "name", params.Name, "error", err)
		return nil, errors.NewInternalError("failed to create plan")
	}

	s.logger.Infow("plan created", "plan_id", p.ID(), "name", p.Name())
	return p, nil
}

func (s *Service) GetPlan(ctx context.Context, id uint) (*billing.Plan, error) {
	p, err := s.plans.GetByID(ctx, id)
	if err != nil {
		s.logger.Errorw("failed to get plan", "plan_id", id, "error", err)
		return nil, errors.NewInternalError("failed to get plan")
	}
	if p == nil {
		return nil, errors.NewNotFoundError("plan not found")
	}
	return p, nil
}

// ListActivePlans returns the purchasable catalog ordered by price.
func (s *Service) ListActivePlans(ctx context.Context) ([]*billing.Plan, error) {
	items, err := s.plans.ListActive(ctx)
	if err != nil {
		s.logger.Errorw("failed to list active plans", "error", err)
		return nil, errors.NewInternalError("failed to list plans")
	}
	return items, nil
}

func (s *Service) ListPlans(ctx context.Context, page, perPage int) ([]*billing.Plan, int64, error) {
	items, total, err := s.plans.List(ctx, page, perPage)
	if err != nil {
		s.logger.Errorw("failed to list plans", "error", err)
		return nil, 0, errors.NewInternalError("failed to list plans")
	}
	return items, total, nil
}

func (s *Service) UpdatePlan(ctx context.Context, id uint, params PlanParams) (*billing.Plan, error) {
	p, err := s.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.UpdateDetails(params.Name, params.Amount, params.TrialDays, params.Quota, params.Minutes); err != nil {
		return nil, errors.NewValidationError("invalid plan", err.Error())
	}
	if err := s.plans.Update(ctx, p); err != nil {
		s.logger.Errorw("failed to update plan", "plan_id", id, "error", err)
		return nil, errors.NewInternalError("failed to update plan")
	}

	s.logger.Infow("plan updated", "plan_id", id)
	return p, nil
}

func (s *Service) DeletePlan(ctx context.Context, id uint) error {
	if _, err := s.GetPlan(ctx, id); err != nil {
		return err
	}
	if err := s.plans.Delete(ctx, id); err != nil {
		s.logger.Errorw("failed to delete plan", "plan_id", id, "error", err)
		return errors.NewInternalError("failed to delete plan")
	}
	s.logger.Infow("plan deleted", "plan_id", id)
	return nil
}

// CreateCheckout looks up the plan and user, then creates a hosted checkout
// session at the provider. The user id travels as the client reference so
// the completed-checkout webhook can attach the subscription.
func (s *Service) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	p, err := s.GetPlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, errors.NewValidationError("plan is not available for purchase")
	}
	if p.StripePriceID() == "" {
		return nil, errors.NewValidationError("plan has no provider price configured")
	}

	owner, err := s.profiles.GetByID(ctx, req.UserID)
	if err != nil {
		s.logger.Errorw("failed to get profile for checkout", "user_id", req.UserID, "error", err)
		return nil, errors.NewInternalError("failed to create checkout session")
	}
	if owner == nil {
		return nil, errors.NewNotFoundError("profile not found")
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, CheckoutParams{
		PriceID:             p.StripePriceID(),
		CustomerEmail:       owner.Email(),
		ClientReferenceID:   owner.ID(),
		TrialDays:           p.TrialDays(),
		AllowPromotionCodes: true,
	})
	if err != nil {
		s.logger.Errorw("failed to create checkout session",
			"user_id", req.UserID,
			"plan_id", req.PlanID,
			"error", err,
		)
		return nil, errors.NewInternalError("failed to create checkout session")
	}

	s.logger.Infow("checkout session created",
		"session_id", session.ID,
		"user_id", req.UserID,
		"plan_id", req.PlanID,
	)
	return session, nil
}

// HandleWebhook authenticates a raw webhook payload and applies the event.
// Events the backend does not handle are acknowledged and ignored.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.verifier.ConstructEvent(payload, signature)
	if err != nil {
		s.logger.Warnw("rejected webhook with invalid signature", "error", err)
		return errors.NewUnauthorizedError("invalid webhook signature")
	}

	switch event.Type {
	case EventCheckoutCompleted:
		return s.handleCheckoutCompleted(ctx, event)
	case EventSubscriptionUpdated:
		return s.handleSubscriptionUpdated(ctx, event)
	case EventSubscriptionDeleted:
		return s.handleSubscriptionDeleted(ctx, event)
	default:
		s.logger.Debugw("ignoring unhandled webhook event", "event_id", event.ID, "type", event.Type)
		return nil
	}
}

func (s *Service) handleCheckoutCompleted(ctx context.Context, event *Event) error {
	var obj CheckoutObject
	if err := json.Unmarshal(event.Data.Object, &obj); err != nil {
		s.logger.Errorw("failed to parse checkout object", "event_id", event.ID, "error", err)
		return errors.NewBadRequestError("malformed checkout payload")
	}
	if obj.Subscription == "" || obj.ClientReferenceID == "" {
		s.logger.Warnw("checkout completed without subscription or reference, ignoring",
			"event_id", event.ID,
			"session_id", obj.ID,
		)
		return nil
	}

	existing, err := s.subs.GetByStripeID(ctx, obj.Subscription)
	if err != nil {
		s.logger.Errorw("failed to look up subscription", "stripe_id", obj.Subscription, "error", err)
		return errors.NewInternalError("failed to process webhook")
	}
	if existing != nil {
		s.logger.Infow("subscription already recorded, ignoring duplicate event",
			"event_id", event.ID,
			"stripe_id", obj.Subscription,
		)
		return nil
	}

	sub, err := billing.NewSubscription(obj.ClientReferenceID, obj.Subscription, billing.StatusActive, "", nil, nil)
	if err != nil {
		s.logger.Errorw("failed to build subscription from checkout",
			"event_id", event.ID,
			"error", err,
		)
		return errors.NewBadRequestError("malformed checkout payload")
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		s.logger.Errorw("failed to create subscription", "stripe_id", obj.Subscription, "error", err)
		return errors.NewInternalError("failed to process webhook")
	}

	s.logger.Infow("subscription created from checkout",
		"stripe_id", obj.Subscription,
		"user_id", obj.ClientReferenceID,
	)

	if owner, err := s.profiles.GetByID(ctx, obj.ClientReferenceID); err == nil && owner != nil {
		planName := s.planNameForSubscription(ctx, sub)
		s.notifier.SendSubscriptionConfirmation(ctx, owner.Email(), owner.FullName(), planName)
	}
	return nil
}

func (s *Service) handleSubscriptionUpdated(ctx context.Context, event *Event) error {
	var obj SubscriptionObject
	if err := json.Unmarshal(event.Data.Object, &obj); err != nil {
		s.logger.Errorw("failed to parse subscription object", "event_id", event.ID, "error", err)
		return errors.NewBadRequestError("malformed subscription payload")
	}

	sub, err := s.subs.GetByStripeID(ctx, obj.ID)
	if err != nil {
		s.logger.Errorw("failed to look up subscription", "stripe_id", obj.ID, "error", err)
		return errors.NewInternalError("failed to process webhook")
	}
	if sub == nil {
		s.logger.Warnw("update event for unknown subscription, ignoring",
			"event_id", event.ID,
			"stripe_id", obj.ID,
		)
		return nil
	}

	price := ""
	if len(obj.Items.Data) > 0 {
		price = obj.Items.Data[0].Price.ID
	}
	sub.SyncFromProvider(obj.Status, price, unixTime(obj.CurrentPeriodStart), unixTime(obj.CurrentPeriodEnd))

	if err := s.subs.Update(ctx, sub); err != nil {
		s.logger.Errorw("failed to update subscription", "stripe_id", obj.ID, "error", err)
		return errors.NewInternalError("failed to process webhook")
	}

	s.logger.Infow("subscription synced from provider",
		"stripe_id", obj.ID,
		"status", obj.Status,
	)
	return nil
}

func (s *Service) handleSubscriptionDeleted(ctx context.Context, event *Event) error {
	var obj SubscriptionObject
	if err := json.Unmarshal(event.Data.Object, &obj); err != nil {
		s.logger.Errorw("failed to parse subscription object", "event_id", event.ID, "error", err)
		return errors.NewBadRequestError("malformed subscription payload")
	}

	sub, err := s.subs.GetByStripeID(ctx, obj.ID)
	if err != nil {
		s.logger.Errorw("failed to look up subscription", "stripe_id", obj.ID, "error", err)
		return errors.NewInternalError("failed to process webhook")
	}
	if sub == nil {
		s.logger.Warnw("delete event for unknown subscription, ignoring",
			"event_id", event.ID,
			"stripe_id", obj.ID,
		)
		return nil
	}

	sub.Cancel()
	if err := s.subs.Update(ctx, sub); err != nil {
		s.logger.Errorw("failed to cancel subscription", "stripe_id", obj.ID, "error", err)
		return errors.NewInternalError("failed to process webhook")
	}

	s.logger.Infow("subscription canceled", "stripe_id", obj.ID)
	return nil
}

// GetSubscriptionForUser returns the user's active subscription, creating
// the starter grant when none exists.
func (s *Service) GetSubscriptionForUser(ctx context.Context, userID string) (*billing.Subscription, error) {
	owner, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		s.logger.Errorw("failed to get profile", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to get subscription")
	}
	if owner == nil {
		return nil, errors.NewNotFoundError("profile not found")
	}

	sub, err := s.subs.GetActiveByUser(ctx, userID)
	if err != nil {
		s.logger.Errorw("failed to get subscription", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to get subscription")
	}
	if sub != nil {
		return sub, nil
	}

	starter, err := billing.NewStarterSubscription(userID)
	if err != nil {
		return nil, errors.NewValidationError("invalid user id", err.Error())
	}
	if err := s.subs.Create(ctx, starter); err != nil {
		s.logger.Errorw("failed to create starter subscription", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to get subscription")
	}

	s.logger.Infow("starter subscription created", "user_id", userID)
	return starter, nil
}

func (s *Service) planNameForSubscription(ctx context.Context, sub *billing.Subscription) string {
	if sub.StripePrice() == "" {
		return "new"
	}
	p, err := s.plans.GetByStripePriceID(ctx, sub.StripePrice())
	if err != nil || p == nil {
		return "new"
	}
	return p.Name()
}

func unixTime(ts int64) *time.Time {
	if ts == 0 {
		return nil
	}
	t := time.Unix(ts, 0).UTC()
	return &t
}
