package sync

import "time"

// State is the lifecycle of a reconciliation pass.
type State string

const (
	StateIdle             State = "idle"
	StateFetchingProfiles State = "fetching_profiles"
	StateSyncing          State = "syncing"
	StateCompleted        State = "completed"
	StateFailed           State = "failed"
)

// Counters tallies successful upserts per entity kind in one pass.
type Counters struct {
	Profiles     int `json:"profiles"`
	Meetings     int `json:"meetings"`
	Transcripts  int `json:"transcripts"`
	ChatMessages int `json:"chat_messages"`
	Summaries    int `json:"summaries"`
}

// SkippedUnit records one unit the pass could not apply. The rest of the
// pass continues around it.
type SkippedUnit struct {
	Kind   string `json:"kind"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Report is the observable outcome of the latest pass.
type Report struct {
	State      State         `json:"state"`
	StartedAt  *time.Time    `json:"started_at,omitempty"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
	Counters   Counters      `json:"counters"`
	Skipped    []SkippedUnit `json:"skipped,omitempty"`
	Error      string        `json:"error,omitempty"`
}

func (r Report) clone() Report {
	out := r
	if r.Skipped != nil {
		out.Skipped = make([]SkippedUnit, len(r.Skipped))
		copy(out.Skipped, r.Skipped)
	}
	return out
}
