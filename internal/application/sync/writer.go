// Package sync implements the periodic reconciliation of remote meeting data
// into the local database: fetching per-user payloads, validating them, and
// applying idempotent upserts inside a scoped consistency window.
package sync

import (
	"context"

	"github.com/meetscribe/meetscribe/internal/domain/meeting"
	"github.com/meetscribe/meetscribe/internal/domain/profile"
)

// Writer applies idempotent upserts for one reconciliation pass. Replaying
// the same params leaves row counts unchanged.
type Writer interface {
	UpsertProfile(ctx context.Context, params profile.UpsertParams) error
	UpsertMeeting(ctx context.Context, params meeting.UpsertParams) error
	UpsertTranscript(ctx context.Context, params meeting.TranscriptUpsertParams) error
	UpsertChatMessage(ctx context.Context, params meeting.ChatMessageUpsertParams) error
	UpsertSummary(ctx context.Context, params meeting.SummaryUpsertParams) error
}

// WriterSession opens the write window for one pass. Implementations pin a
// database connection, relax referential checks on it for the duration of fn,
// and guarantee the checks are restored afterwards.
type WriterSession interface {
	WithWriter(ctx context.Context, fn func(w Writer) error) error
}
