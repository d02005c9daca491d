package sync

import (
	"context"
	"encoding/json"
	"time"
)

// RemoteProfile mirrors one row of the upstream profiles table.
type RemoteProfile struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  *string    `json:"full_name"`
	AvatarURL *string    `json:"avatar_url"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// RemoteMeeting mirrors one upstream meeting row with its embedded children,
// as returned by the composite fetch.
type RemoteMeeting struct {
	ID              string              `json:"id"`
	UserID          string              `json:"user_id"`
	Title           *string             `json:"title"`
	Status          *string             `json:"status"`
	StartedAt       *time.Time          `json:"started_at"`
	EndedAt         *time.Time          `json:"ended_at"`
	DurationSeconds *int                `json:"duration_seconds"`
	CreatedAt       *time.Time          `json:"created_at"`
	Transcripts     []RemoteTranscript  `json:"transcripts"`
	ChatMessages    []RemoteChatMessage `json:"chat_messages"`
	Summaries       []RemoteSummary     `json:"meeting_summaries"`
}

// RemoteTranscript mirrors one upstream transcript row. The timestamp column
// is text upstream and parsed to a float offset on write.
type RemoteTranscript struct {
	ID           string     `json:"id"`
	MeetingID    string     `json:"meeting_id"`
	Speaker      string     `json:"speaker"`
	Text         string     `json:"text"`
	Timestamp    string     `json:"timestamp"`
	LanguageCode *string    `json:"language_code"`
	Confidence   *float64   `json:"confidence"`
	CreatedAt    *time.Time `json:"created_at"`
}

// RemoteChatMessage mirrors one upstream chat message row.
type RemoteChatMessage struct {
	ID        string     `json:"id"`
	MeetingID string     `json:"meeting_id"`
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	CreatedAt *time.Time `json:"created_at"`
}

// RemoteSummary mirrors one upstream summary row. Action items stay raw
// until the engine validates them.
type RemoteSummary struct {
	ID          string          `json:"id"`
	MeetingID   string          `json:"meeting_id"`
	SummaryText *string         `json:"summary_text"`
	ActionItems json.RawMessage `json:"action_items"`
	UserNotes   *string         `json:"user_notes"`
	CreatedAt   *time.Time      `json:"created_at"`
}

// RemoteClient reads the upstream datastore.
type RemoteClient interface {
	ListProfiles(ctx context.Context) ([]RemoteProfile, error)
	ListMeetingsForUser(ctx context.Context, userID string) ([]RemoteMeeting, error)
}
