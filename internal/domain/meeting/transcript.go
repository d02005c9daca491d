package meeting

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Transcript is one speaker segment of a meeting. Transcripts are
// soft-deleted: tombstoned rows stay in the table and are excluded from
// default queries.
type Transcript struct {
	id           string
	meetingID    string
	speaker      string
	text         string
	timestamp    float64
	languageCode *string
	confidence   *float64
	createdAt    time.Time
}

// ReconstructTranscript rebuilds a transcript from persistence.
func ReconstructTranscript(
	id, meetingID, speaker, text string,
	timestamp float64,
	languageCode *string,
	confidence *float64,
	createdAt time.Time,
) (*Transcript, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid transcript id %q: %w", id, err)
	}
	return &Transcript{
		id:           id,
		meetingID:    meetingID,
		speaker:      speaker,
		text:         text,
		timestamp:    timestamp,
		languageCode: languageCode,
		confidence:   confidence,
		createdAt:    createdAt,
	}, nil
}

func (t *Transcript) ID() string            { return t.id }
func (t *Transcript) MeetingID() string     { return t.meetingID }
func (t *Transcript) Speaker() string       { return t.speaker }
func (t *Transcript) Text() string          { return t.text }
func (t *Transcript) Timestamp() float64    { return t.timestamp }
func (t *Transcript) LanguageCode() *string { return t.languageCode }
func (t *Transcript) Confidence() *float64  { return t.confidence }
func (t *Transcript) CreatedAt() time.Time  { return t.createdAt }

// TranscriptUpsertParams is the typed partial-attribute set for a transcript
// upsert. Timestamp is already parsed from the upstream text representation.
type TranscriptUpsertParams struct {
	ID           string
	MeetingID    string
	Speaker      string
	Text         string
	Timestamp    float64
	LanguageCode *string
	Confidence   *float64
	CreatedAt    *time.Time
}

func (p TranscriptUpsertParams) Validate() error {
	if _, err := uuid.Parse(p.ID); err != nil {
		return fmt.Errorf("invalid transcript id %q: %w", p.ID, err)
	}
	if _, err := uuid.Parse(p.MeetingID); err != nil {
		return fmt.Errorf("transcript %s: invalid meeting id %q: %w", p.ID, p.MeetingID, err)
	}
	if p.Confidence != nil && (*p.Confidence < 0 || *p.Confidence > 1) {
		return fmt.Errorf("transcript %s: confidence out of range", p.ID)
	}
	return nil
}
