package supabase

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetscribe/meetscribe/internal/shared/config"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(&config.SupabaseConfig{
		URL:        server.URL,
		ServiceKey: "service-key",
	}, logger.NewLogger())
}

func TestClient_ListProfiles(t *testing.T) {
	var gotPath, gotAuth, gotAPIKey, gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAPIKey = r.Header.Get("apikey")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"11111111-1111-1111-1111-111111111111","email":"a@example.com","full_name":"Alice"},
			{"id":"22222222-2222-2222-2222-222222222222","email":"b@example.com","full_name":null}
		]`))
	})

	profiles, err := client.ListProfiles(t.Context())
	require.NoError(t, err)

	assert.Equal(t, "/rest/v1/profiles", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "service-key", gotAPIKey)
	assert.Contains(t, gotQuery, "order=created_at.desc")

	require.Len(t, profiles, 2)
	assert.Equal(t, "a@example.com", profiles[0].Email)
	require.NotNil(t, profiles[0].FullName)
	assert.Equal(t, "Alice", *profiles[0].FullName)
	assert.Nil(t, profiles[1].FullName)
}

func TestClient_ListMeetingsForUser(t *testing.T) {
	userID := "11111111-1111-1111-1111-111111111111"

	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{
				"id":"33333333-3333-3333-3333-333333333333",
				"user_id":"` + userID + `",
				"title":"Planning",
				"status":"ended",
				"transcripts":[{"id":"44444444-4444-4444-4444-444444444444","meeting_id":"33333333-3333-3333-3333-333333333333","speaker":"Alice","text":"hi","timestamp":"2.25"}],
				"chat_messages":[],
				"meeting_summaries":[{"id":"55555555-5555-5555-5555-555555555555","meeting_id":"33333333-3333-3333-3333-333333333333","summary_text":"recap","action_items":[{"text":"follow up","completed":false}]}]
			}
		]`))
	})

	meetings, err := client.ListMeetingsForUser(t.Context(), userID)
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "user_id=eq."+userID)
	assert.Contains(t, gotQuery, "transcripts%28%2A%29")

	require.Len(t, meetings, 1)
	m := meetings[0]
	assert.Equal(t, userID, m.UserID)
	require.Len(t, m.Transcripts, 1)
	assert.Equal(t, "2.25", m.Transcripts[0].Timestamp)
	assert.Empty(t, m.ChatMessages)
	require.Len(t, m.Summaries, 1)
	assert.NotEmpty(t, m.Summaries[0].ActionItems)
}

func TestClient_NonOKStatusReturnsTypedError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"JWT expired"}`))
	})

	_, err := client.ListProfiles(t.Context())
	require.Error(t, err)

	var remoteErr *RemoteServiceError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusUnauthorized, remoteErr.Status)
	assert.Equal(t, "/rest/v1/profiles", remoteErr.Endpoint)
	assert.Contains(t, remoteErr.Body, "JWT expired")
}

func TestClient_MalformedBodyReturnsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"`))
	})

	_, err := client.ListProfiles(t.Context())
	require.Error(t, err)
}
