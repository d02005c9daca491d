package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/meetscribe/meetscribe/internal/application/billing"
)

const webhookSecret = "whsec_test"

func signPayload(t *testing.T, secret string, timestamp int64, payload []byte) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)
	return fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func TestWebhookVerifier_AcceptsValidSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"customer.subscription.updated","data":{"object":{"id":"sub_1","status":"active"}}}`)
	header := signPayload(t, webhookSecret, time.Now().Unix(), payload)

	event, err := NewWebhookVerifier(webhookSecret).ConstructEvent(payload, header)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, appbilling.EventSubscriptionUpdated, event.Type)

	assert.Contains(t, string(event.Data.Object), "sub_1")
}

func TestWebhookVerifier_RejectsWrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	header := signPayload(t, "whsec_other", time.Now().Unix(), payload)

	_, err := NewWebhookVerifier(webhookSecret).ConstructEvent(payload, header)
	assert.Error(t, err)
}

func TestWebhookVerifier_RejectsTamperedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	header := signPayload(t, webhookSecret, time.Now().Unix(), payload)

	tampered := []byte(`{"id":"evt_2","type":"checkout.session.completed"}`)
	_, err := NewWebhookVerifier(webhookSecret).ConstructEvent(tampered, header)
	assert.Error(t, err)
}

func TestWebhookVerifier_RejectsStaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	stale := time.Now().Add(-time.Hour).Unix()
	header := signPayload(t, webhookSecret, stale, payload)

	_, err := NewWebhookVerifier(webhookSecret).ConstructEvent(payload, header)
	assert.Error(t, err)
}

func TestWebhookVerifier_RejectsMalformedHeader(t *testing.T) {
	verifier := NewWebhookVerifier(webhookSecret)
	payload := []byte(`{}`)

	for _, header := range []string{"", "v1=abc", "t=notanumber,v1=abc", "t=123"} {
		_, err := verifier.ConstructEvent(payload, header)
		assert.Error(t, err, "header %q should be rejected", header)
	}
}
