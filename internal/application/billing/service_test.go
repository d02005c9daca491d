package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meetscribe/meetscribe/internal/domain/billing"
	"github.com/meetscribe/meetscribe/internal/domain/profile"
	"github.com/meetscribe/meetscribe/internal/shared/errors"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

const testUserID = "5f6e4c0f-0a1b-4c2d-8e3f-4a5b6c7d8e9f"

type mockPlanRepo struct {
	mock.Mock
}

func (m *mockPlanRepo) Create(ctx context.Context, p *billing.Plan) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPlanRepo) GetByID(ctx context.Context, id uint) (*billing.Plan, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*billing.Plan)
	return p, args.Error(1)
}

func (m *mockPlanRepo) GetByName(ctx context.Context, name string) (*billing.Plan, error) {
	args := m.Called(ctx, name)
	p, _ := args.Get(0).(*billing.Plan)
	return p, args.Error(1)
}

func (m *mockPlanRepo) GetByStripePriceID(ctx context.Context, priceID string) (*billing.Plan, error) {
	args := m.Called(ctx, priceID)
	p, _ := args.Get(0).(*billing.Plan)
	return p, args.Error(1)
}

func (m *mockPlanRepo) ListActive(ctx context.Context) ([]*billing.Plan, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]*billing.Plan)
	return items, args.Error(1)
}

func (m *mockPlanRepo) List(ctx context.Context, page, perPage int) ([]*billing.Plan, int64, error) {
	args := m.Called(ctx, page, perPage)
	items, _ := args.Get(0).([]*billing.Plan)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockPlanRepo) Update(ctx context.Context, p *billing.Plan) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPlanRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockSubRepo struct {
	mock.Mock
}

func (m *mockSubRepo) Create(ctx context.Context, s *billing.Subscription) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockSubRepo) GetActiveByUser(ctx context.Context, userID string) (*billing.Subscription, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*billing.Subscription)
	return s, args.Error(1)
}

func (m *mockSubRepo) GetByStripeID(ctx context.Context, stripeID string) (*billing.Subscription, error) {
	args := m.Called(ctx, stripeID)
	s, _ := args.Get(0).(*billing.Subscription)
	return s, args.Error(1)
}

func (m *mockSubRepo) Update(ctx context.Context, s *billing.Subscription) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProfileRepo) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*profile.Profile)
	return p, args.Error(1)
}

func (m *mockProfileRepo) GetByEmail(ctx context.Context, email string) (*profile.Profile, error) {
	args := m.Called(ctx, email)
	p, _ := args.Get(0).(*profile.Profile)
	return p, args.Error(1)
}

func (m *mockProfileRepo) List(ctx context.Context, filter profile.Filter) ([]*profile.Profile, int64, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]*profile.Profile)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProfileRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProfileRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type fakeGateway struct {
	lastParams CheckoutParams
	session    *CheckoutSession
	err        error
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	g.lastParams = params
	return g.session, g.err
}

// passthroughVerifier accepts any payload and parses it as the event.
type passthroughVerifier struct {
	err error
}

func (v passthroughVerifier) ConstructEvent(payload []byte, signatureHeader string) (*Event, error) {
	if v.err != nil {
		return nil, v.err
	}
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

type noopNotifier struct {
	confirmations []string
}

func (n *noopNotifier) SendSubscriptionConfirmation(ctx context.Context, to, name, planName string) {
	n.confirmations = append(n.confirmations, to)
}

type billingFixture struct {
	plans    *mockPlanRepo
	subs     *mockSubRepo
	profiles *mockProfileRepo
	gateway  *fakeGateway
	notifier *noopNotifier
	svc      *Service
}

func newBillingFixture(verifierErr error) *billingFixture {
	f := &billingFixture{
		plans:    &mockPlanRepo{},
		subs:     &mockSubRepo{},
		profiles: &mockProfileRepo{},
		gateway:  &fakeGateway{session: &CheckoutSession{ID: "cs_123", URL: "https://pay.example.com/cs_123"}},
		notifier: &noopNotifier{},
	}
	f.svc = NewService(f.plans, f.subs, f.profiles, f.gateway, passthroughVerifier{err: verifierErr}, f.notifier, logger.NewLogger())
	return f
}

func testPlan(t *testing.T, id uint, priceID string) *billing.Plan {
	t.Helper()
	p, err := billing.ReconstructPlan(
		id, "Pro", "prod_1", priceID, billing.IntervalMonth,
		1900, "usd", 14, nil, nil, true,
		time.Now().UTC(), time.Now().UTC(),
	)
	require.NoError(t, err)
	return p
}

func testProfile(t *testing.T) *profile.Profile {
	t.Helper()
	p, err := profile.ReconstructProfile(
		testUserID, "alice@example.com", "Alice", "",
		time.Now().UTC(), time.Now().UTC(),
	)
	require.NoError(t, err)
	return p
}

func eventPayload(t *testing.T, eventType string, object any) []byte {
	t.Helper()
	raw, err := json.Marshal(object)
	require.NoError(t, err)
	payload, err := json.Marshal(map[string]any{
		"id":   "evt_1",
		"type": eventType,
		"data": map[string]any{"object": json.RawMessage(raw)},
	})
	require.NoError(t, err)
	return payload
}

func TestService_CreateCheckout(t *testing.T) {
	t.Run("creates session with plan price and user reference", func(t *testing.T) {
		f := newBillingFixture(nil)
		f.plans.On("GetByID", mock.Anything, uint(1)).Return(testPlan(t, 1, "price_pro"), nil)
		f.profiles.On("GetByID", mock.Anything, testUserID).Return(testProfile(t), nil)

		session, err := f.svc.CreateCheckout(t.Context(), CheckoutRequest{UserID: testUserID, PlanID: 1})
		require.NoError(t, err)
		assert.Equal(t, "cs_123", session.ID)

		assert.Equal(t, "price_pro", f.gateway.lastParams.PriceID)
		assert.Equal(t, "alice@example.com", f.gateway.lastParams.CustomerEmail)
		assert.Equal(t, testUserID, f.gateway.lastParams.ClientReferenceID)
		assert.Equal(t, 14, f.gateway.lastParams.TrialDays)
	})

	t.Run("unknown plan is not found", func(t *testing.T) {
		f := newBillingFixture(nil)
		f.plans.On("GetByID", mock.Anything, uint(9)).Return(nil, nil)

		_, err := f.svc.CreateCheckout(t.Context(), CheckoutRequest{UserID: testUserID, PlanID: 9})
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("plan without provider price is rejected", func(t *testing.T) {
		f := newBillingFixture(nil)
		f.plans.On("GetByID", mock.Anything, uint(1)).Return(testPlan(t, 1, ""), nil)

		_, err := f.svc.CreateCheckout(t.Context(), CheckoutRequest{UserID: testUserID, PlanID: 1})
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestService_HandleWebhook(t *testing.T) {
	t.Run("invalid signature is unauthorized", func(t *testing.T) {
		f := newBillingFixture(fmt.Errorf("signature mismatch"))

		err := f.svc.HandleWebhook(t.Context(), []byte("{}"), "t=1,v1=bad")
		appErr := errors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrorTypeUnauthorized, appErr.Type)
	})

	t.Run("checkout completed creates subscription and confirms", func(t *testing.T) {
		f := newBillingFixture(nil)
		f.subs.On("GetByStripeID", mock.Anything, "sub_1").Return(nil, nil)
		f.subs.On("Create", mock.Anything, mock.MatchedBy(func(s *billing.Subscription) bool {
			return s.StripeID() == "sub_1" && s.UserID() == testUserID
		})).Return(nil)
		f.profiles.On("GetByID", mock.Anything, testUserID).Return(testProfile(t), nil)

		payload := eventPayload(t, EventCheckoutCompleted, map[string]string{
			"id":                  "cs_123",
			"client_reference_id": testUserID,
			"customer_email":      "alice@example.com",
			"subscription":        "sub_1",
		})
		require.NoError(t, f.svc.HandleWebhook(t.Context(), payload, "sig"))

		f.subs.AssertExpectations(t)
		assert.Equal(t, []string{"alice@example.com"}, f.notifier.confirmations)
	})

	t.Run("duplicate checkout event is ignored", func(t *testing.T) {
		f := newBillingFixture(nil)
		existing, err := billing.NewSubscription(testUserID, "sub_1", billing.StatusActive, "", nil, nil)
		require.NoError(t, err)
		f.subs.On("GetByStripeID", mock.Anything, "sub_1").Return(existing, nil)

		payload := eventPayload(t, EventCheckoutCompleted, map[string]string{
			"client_reference_id": testUserID,
			"subscription":        "sub_1",
		})
		require.NoError(t, f.svc.HandleWebhook(t.Context(), payload, "sig"))
		f.subs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("subscription updated syncs provider state", func(t *testing.T) {
		f := newBillingFixture(nil)
		sub, err := billing.NewSubscription(testUserID, "sub_1", billing.StatusTrialing, "", nil, nil)
		require.NoError(t, err)
		f.subs.On("GetByStripeID", mock.Anything, "sub_1").Return(sub, nil)
		f.subs.On("Update", mock.Anything, sub).Return(nil)

		payload := eventPayload(t, EventSubscriptionUpdated, map[string]any{
			"id":                   "sub_1",
			"status":               "active",
			"current_period_start": 1700000000,
			"current_period_end":   1702592000,
			"items": map[string]any{
				"data": []map[string]any{
					{"price": map[string]string{"id": "price_pro"}},
				},
			},
		})
		require.NoError(t, f.svc.HandleWebhook(t.Context(), payload, "sig"))

		assert.Equal(t, "active", sub.StripeStatus())
		assert.Equal(t, "price_pro", sub.StripePrice())
		require.NotNil(t, sub.CurrentPeriodEnd())
		assert.Equal(t, int64(1702592000), sub.CurrentPeriodEnd().Unix())
	})

	t.Run("subscription deleted cancels local record", func(t *testing.T) {
		f := newBillingFixture(nil)
		sub, err := billing.NewSubscription(testUserID, "sub_1", billing.StatusActive, "", nil, nil)
		require.NoError(t, err)
		f.subs.On("GetByStripeID", mock.Anything, "sub_1").Return(sub, nil)
		f.subs.On("Update", mock.Anything, sub).Return(nil)

		payload := eventPayload(t, EventSubscriptionDeleted, map[string]string{"id": "sub_1"})
		require.NoError(t, f.svc.HandleWebhook(t.Context(), payload, "sig"))

		assert.Equal(t, billing.StatusCanceled, sub.StripeStatus())
		assert.False(t, sub.IsActive())
	})

	t.Run("unknown event types are acknowledged", func(t *testing.T) {
		f := newBillingFixture(nil)
		payload := eventPayload(t, "invoice.paid", map[string]string{"id": "in_1"})
		require.NoError(t, f.svc.HandleWebhook(t.Context(), payload, "sig"))
	})
}

func TestService_GetSubscriptionForUser(t *testing.T) {
	t.Run("returns active subscription", func(t *testing.T) {
		f := newBillingFixture(nil)
		sub, err := billing.NewSubscription(testUserID, "sub_1", billing.StatusActive, "price_pro", nil, nil)
		require.NoError(t, err)
		f.profiles.On("GetByID", mock.Anything, testUserID).Return(testProfile(t), nil)
		f.subs.On("GetActiveByUser", mock.Anything, testUserID).Return(sub, nil)

		got, err := f.svc.GetSubscriptionForUser(t.Context(), testUserID)
		require.NoError(t, err)
		assert.Equal(t, "sub_1", got.StripeID())
	})

	t.Run("creates starter grant when none exists", func(t *testing.T) {
		f := newBillingFixture(nil)
		f.profiles.On("GetByID", mock.Anything, testUserID).Return(testProfile(t), nil)
		f.subs.On("GetActiveByUser", mock.Anything, testUserID).Return(nil, nil)
		f.subs.On("Create", mock.Anything, mock.MatchedBy(func(s *billing.Subscription) bool {
			return s.Type() == billing.TypeStarter && s.UserID() == testUserID
		})).Return(nil)

		got, err := f.svc.GetSubscriptionForUser(t.Context(), testUserID)
		require.NoError(t, err)
		assert.Equal(t, billing.TypeStarter, got.Type())
		assert.True(t, got.IsActive())
		f.subs.AssertExpectations(t)
	})

	t.Run("unknown profile is not found", func(t *testing.T) {
		f := newBillingFixture(nil)
		f.profiles.On("GetByID", mock.Anything, testUserID).Return(nil, nil)

		_, err := f.svc.GetSubscriptionForUser(t.Context(), testUserID)
		assert.True(t, errors.IsNotFoundError(err))
	})
}
