// Package meeting contains the meeting aggregate and its child entities:
// transcripts, chat messages and the per-meeting summary. All of them mirror
// rows owned by the remote datastore and are keyed by remote UUIDs.
package meeting

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meetscribe/meetscribe/internal/shared/biztime"
)

// Status is the lifecycle state of a meeting.
type Status string

const (
	StatusLive      Status = "live"
	StatusEnded     Status = "ended"
	StatusScheduled Status = "scheduled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusLive, StatusEnded, StatusScheduled:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// Meeting represents a recorded or scheduled meeting owned by a profile.
type Meeting struct {
	id              string
	userID          string
	title           string
	status          Status
	startedAt       *time.Time
	endedAt         *time.Time
	durationSeconds *int
	createdAt       time.Time
}

// NewMeeting creates a meeting with a generated id, for direct API creation.
func NewMeeting(userID, title string, status Status, startedAt *time.Time) (*Meeting, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid meeting status %q", status)
	}
	return &Meeting{
		id:        uuid.NewString(),
		userID:    userID,
		title:     title,
		status:    status,
		startedAt: startedAt,
		createdAt: biztime.NowUTC(),
	}, nil
}

// ReconstructMeeting rebuilds a meeting from persistence.
func ReconstructMeeting(
	id, userID, title string,
	status Status,
	startedAt, endedAt *time.Time,
	durationSeconds *int,
	createdAt time.Time,
) (*Meeting, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid meeting id %q: %w", id, err)
	}
	return &Meeting{
		id:              id,
		userID:          userID,
		title:           title,
		status:          status,
		startedAt:       startedAt,
		endedAt:         endedAt,
		durationSeconds: durationSeconds,
		createdAt:       createdAt,
	}, nil
}

func (m *Meeting) ID() string            { return m.id }
func (m *Meeting) UserID() string        { return m.userID }
func (m *Meeting) Title() string         { return m.title }
func (m *Meeting) Status() Status        { return m.status }
func (m *Meeting) StartedAt() *time.Time { return m.startedAt }
func (m *Meeting) EndedAt() *time.Time   { return m.endedAt }
func (m *Meeting) DurationSeconds() *int { return m.durationSeconds }
func (m *Meeting) CreatedAt() time.Time  { return m.createdAt }

// End marks the meeting finished and records the duration.
func (m *Meeting) End(at time.Time) error {
	if m.startedAt != nil && at.Before(*m.startedAt) {
		return fmt.Errorf("meeting cannot end before it started")
	}
	m.status = StatusEnded
	m.endedAt = &at
	if m.startedAt != nil {
		secs := int(at.Sub(*m.startedAt).Seconds())
		m.durationSeconds = &secs
	}
	return nil
}

// Rename updates the meeting title.
func (m *Meeting) Rename(title string) {
	m.title = title
}

// UpsertParams is the typed partial-attribute set applied by a sync upsert.
type UpsertParams struct {
	ID              string
	UserID          string
	Title           *string
	Status          *string
	StartedAt       *time.Time
	EndedAt         *time.Time
	DurationSeconds *int
	CreatedAt       *time.Time
}

// Validate checks keys and invariants: ended_at must not precede started_at
// and duration must be non-negative when present.
func (p UpsertParams) Validate() error {
	if _, err := uuid.Parse(p.ID); err != nil {
		return fmt.Errorf("invalid meeting id %q: %w", p.ID, err)
	}
	if _, err := uuid.Parse(p.UserID); err != nil {
		return fmt.Errorf("meeting %s: invalid user id %q: %w", p.ID, p.UserID, err)
	}
	if p.Status != nil && !Status(*p.Status).IsValid() {
		return fmt.Errorf("meeting %s: invalid status %q", p.ID, *p.Status)
	}
	if p.StartedAt != nil && p.EndedAt != nil && p.EndedAt.Before(*p.StartedAt) {
		return fmt.Errorf("meeting %s: ended_at precedes started_at", p.ID)
	}
	if p.DurationSeconds != nil && *p.DurationSeconds < 0 {
		return fmt.Errorf("meeting %s: negative duration", p.ID)
	}
	return nil
}
