package meeting

import "context"

// Filter narrows meeting listings.
type Filter struct {
	UserID  string
	Status  string
	Page    int
	PerPage int
}

// Repository is the persistence contract for meetings.
type Repository interface {
	Create(ctx context.Context, m *Meeting) error
	GetByID(ctx context.Context, id string) (*Meeting, error)
	List(ctx context.Context, filter Filter) ([]*Meeting, int64, error)
	Update(ctx context.Context, m *Meeting) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// TranscriptRepository is the persistence contract for transcripts.
// Deletions are soft: tombstoned rows are excluded from listings.
type TranscriptRepository interface {
	ListByMeeting(ctx context.Context, meetingID string) ([]*Transcript, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// ChatMessageRepository is the persistence contract for chat messages.
type ChatMessageRepository interface {
	ListByMeeting(ctx context.Context, meetingID string) ([]*ChatMessage, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// SummaryRepository is the persistence contract for meeting summaries.
type SummaryRepository interface {
	GetByMeeting(ctx context.Context, meetingID string) (*Summary, error)
	UpdateUserNotes(ctx context.Context, meetingID, notes string) error
	Count(ctx context.Context) (int64, error)
}
