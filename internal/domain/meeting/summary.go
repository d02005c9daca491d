package meeting

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ActionItem is one entry of a summary's ordered action-item list.
type ActionItem struct {
	Text      string  `json:"text"`
	Completed bool    `json:"completed"`
	Owner     *string `json:"owner,omitempty"`
}

// Summary is the AI-generated recap of a meeting. A meeting has at most one;
// a newer summary for the same meeting replaces the previous one.
type Summary struct {
	id          string
	meetingID   string
	summaryText string
	actionItems []ActionItem
	userNotes   string
	createdAt   time.Time
}

// ReconstructSummary rebuilds a summary from persistence.
func ReconstructSummary(
	id, meetingID, summaryText string,
	actionItems []ActionItem,
	userNotes string,
	createdAt time.Time,
) (*Summary, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid summary id %q: %w", id, err)
	}
	return &Summary{
		id:          id,
		meetingID:   meetingID,
		summaryText: summaryText,
		actionItems: actionItems,
		userNotes:   userNotes,
		createdAt:   createdAt,
	}, nil
}

func (s *Summary) ID() string                { return s.id }
func (s *Summary) MeetingID() string         { return s.meetingID }
func (s *Summary) SummaryText() string       { return s.summaryText }
func (s *Summary) ActionItems() []ActionItem { return s.actionItems }
func (s *Summary) UserNotes() string         { return s.userNotes }
func (s *Summary) CreatedAt() time.Time      { return s.createdAt }

// SummaryUpsertParams is the typed partial-attribute set for a summary
// upsert. The upsert is keyed by meeting id: an existing summary row for the
// meeting is fully replaced, never duplicated.
type SummaryUpsertParams struct {
	ID          string
	MeetingID   string
	SummaryText *string
	ActionItems []ActionItem
	UserNotes   *string
	CreatedAt   *time.Time
}

func (p SummaryUpsertParams) Validate() error {
	if _, err := uuid.Parse(p.ID); err != nil {
		return fmt.Errorf("invalid summary id %q: %w", p.ID, err)
	}
	if _, err := uuid.Parse(p.MeetingID); err != nil {
		return fmt.Errorf("summary %s: invalid meeting id %q: %w", p.ID, p.MeetingID, err)
	}
	return nil
}
