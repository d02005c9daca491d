package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	appbilling "github.com/meetscribe/meetscribe/internal/application/billing"
	"github.com/meetscribe/meetscribe/internal/shared/biztime"
)

// signatureTolerance bounds the accepted age of a signed payload to limit
// replay of captured webhook deliveries.
const signatureTolerance = 5 * time.Minute

// WebhookVerifier checks the provider's signature header: HMAC-SHA256 of
// "<timestamp>.<payload>" with the endpoint secret, compared against every
// v1 candidate in the header.
type WebhookVerifier struct {
	secret    []byte
	tolerance time.Duration
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{
		secret:    []byte(secret),
		tolerance: signatureTolerance,
	}
}

var _ appbilling.WebhookVerifier = (*WebhookVerifier)(nil)

func (v *WebhookVerifier) ConstructEvent(payload []byte, signatureHeader string) (*appbilling.Event, error) {
	timestamp, candidates, err := parseSignatureHeader(signatureHeader)
	if err != nil {
		return nil, err
	}

	age := biztime.NowUTC().Sub(time.Unix(timestamp, 0))
	if age > v.tolerance || age < -v.tolerance {
		return nil, fmt.Errorf("webhook timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	verified := false
	for _, candidate := range candidates {
		sig, decodeErr := hex.DecodeString(candidate)
		if decodeErr != nil {
			continue
		}
		if hmac.Equal(expected, sig) {
			verified = true
			break
		}
	}
	if !verified {
		return nil, fmt.Errorf("no valid webhook signature found")
	}

	var event appbilling.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to decode webhook event: %w", err)
	}
	return &event, nil
}

// parseSignatureHeader splits "t=<unix>,v1=<hex>[,v1=<hex>...]".
func parseSignatureHeader(header string) (int64, []string, error) {
	if header == "" {
		return 0, nil, fmt.Errorf("missing signature header")
	}

	var timestamp int64 = -1
	var candidates []string

	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("malformed signature timestamp: %w", err)
			}
			timestamp = ts
		case "v1":
			candidates = append(candidates, value)
		}
	}

	if timestamp < 0 {
		return 0, nil, fmt.Errorf("signature header missing timestamp")
	}
	if len(candidates) == 0 {
		return 0, nil, fmt.Errorf("signature header missing v1 signature")
	}

	return timestamp, candidates, nil
}
