// Package stripe is a minimal payment-provider client: hosted checkout
// session creation and webhook signature verification. Only the slice of the
// provider API the backend uses is covered.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	appbilling "github.com/meetscribe/meetscribe/internal/application/billing"
	"github.com/meetscribe/meetscribe/internal/shared/config"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

const (
	defaultBaseURL = "https://api.stripe.com"

	requestTimeout = 15 * time.Second

	// Maximum response body size (1MB).
	maxResponseSize = 1 << 20
)

type Client struct {
	secretKey  string
	successURL string
	cancelURL  string
	baseURL    string
	httpClient *http.Client
	logger     logger.Interface
}

func NewClient(cfg *config.StripeConfig, logger logger.Interface) *Client {
	return &Client{
		secretKey:  cfg.SecretKey,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger: logger,
	}
}

var _ appbilling.Gateway = (*Client)(nil)

// CreateCheckoutSession creates a hosted subscription checkout and returns
// its redirect URL.
func (c *Client) CreateCheckoutSession(ctx context.Context, params appbilling.CheckoutParams) (*appbilling.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("line_items[0][price]", params.PriceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", c.successURL)
	form.Set("cancel_url", c.cancelURL)
	if params.CustomerEmail != "" {
		form.Set("customer_email", params.CustomerEmail)
	}
	if params.ClientReferenceID != "" {
		form.Set("client_reference_id", params.ClientReferenceID)
	}
	if params.TrialDays > 0 {
		form.Set("subscription_data[trial_period_days]", strconv.Itoa(params.TrialDays))
	}
	if params.AllowPromotionCodes {
		form.Set("allow_promotion_codes", "true")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checkout session request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read checkout response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Errorw("checkout session creation rejected",
			"status", resp.StatusCode,
			"price_id", params.PriceID,
		)
		return nil, fmt.Errorf("provider returned %d creating checkout session", resp.StatusCode)
	}

	var session appbilling.CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	if session.URL == "" {
		return nil, fmt.Errorf("checkout session %s has no redirect URL", session.ID)
	}

	return &session, nil
}
