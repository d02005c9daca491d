// Package supabase is the PostgREST client for the upstream datastore. The
// backend only reads: the sync pass lists profiles and pulls each profile's
// meetings with embedded children in one composite request.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	appsync "github.com/meetscribe/meetscribe/internal/application/sync"
	"github.com/meetscribe/meetscribe/internal/shared/config"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

const (
	profilesPath = "/rest/v1/profiles"
	meetingsPath = "/rest/v1/meetings"

	// Maximum response body size (16MB). Meeting payloads carry full
	// transcripts, so the cap is generous.
	maxResponseSize = 16 << 20

	// Error bodies are truncated for logging.
	maxErrorBodySize = 4 << 10
)

// RemoteServiceError is a non-2xx reply from the upstream API.
type RemoteServiceError struct {
	Status   int
	Endpoint string
	Body     string
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("remote service returned %d for %s: %s", e.Status, e.Endpoint, e.Body)
}

// Client talks to the upstream PostgREST API with service-role credentials.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     logger.Interface
}

func NewClient(cfg *config.SupabaseConfig, logger logger.Interface) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout(),
		},
		logger: logger,
	}
}

var _ appsync.RemoteClient = (*Client)(nil)

// ListProfiles returns every upstream profile, newest first.
func (c *Client) ListProfiles(ctx context.Context) ([]appsync.RemoteProfile, error) {
	query := url.Values{
		"select": {"*"},
		"order":  {"created_at.desc"},
	}

	var profiles []appsync.RemoteProfile
	if err := c.get(ctx, profilesPath, query, &profiles); err != nil {
		return nil, fmt.Errorf("failed to list remote profiles: %w", err)
	}
	return profiles, nil
}

// ListMeetingsForUser returns a profile's meetings with transcripts, chat
// messages and summaries embedded, newest first.
func (c *Client) ListMeetingsForUser(ctx context.Context, userID string) ([]appsync.RemoteMeeting, error) {
	query := url.Values{
		"user_id": {"eq." + userID},
		"select":  {"*,transcripts(*),chat_messages(*),meeting_summaries(*)"},
		"order":   {"created_at.desc"},
	}

	var meetings []appsync.RemoteMeeting
	if err := c.get(ctx, meetingsPath, query, &meetings); err != nil {
		return nil, fmt.Errorf("failed to list remote meetings for user %s: %w", userID, err)
	}
	return meetings, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		c.logger.Errorw("remote service request failed",
			"endpoint", path,
			"status", resp.StatusCode,
		)
		return &RemoteServiceError{
			Status:   resp.StatusCode,
			Endpoint: path,
			Body:     string(body),
		}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}

	return nil
}
