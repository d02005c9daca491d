package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	stdsync "sync"
	"time"

	"github.com/meetscribe/meetscribe/internal/domain/meeting"
	"github.com/meetscribe/meetscribe/internal/domain/profile"
	"github.com/meetscribe/meetscribe/internal/shared/biztime"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

// ErrPassInProgress is returned when a pass is requested while another one
// holds the gate.
var ErrPassInProgress = errors.New("reconciliation pass already in progress")

// Engine runs reconciliation passes: list remote profiles, pull each
// profile's meetings with children, and apply idempotent upserts inside one
// write window. A failing unit is recorded and skipped; only a failing
// profile listing aborts the pass.
type Engine struct {
	remote  RemoteClient
	session WriterSession
	logger  logger.Interface

	gate stdsync.Mutex

	mu     stdsync.Mutex
	report Report
}

func NewEngine(remote RemoteClient, session WriterSession, logger logger.Interface) *Engine {
	return &Engine{
		remote:  remote,
		session: session,
		logger:  logger,
		report:  Report{State: StateIdle},
	}
}

// Report returns a copy of the latest pass report.
func (e *Engine) Report() Report {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.report.clone()
}

// Running reports whether a pass currently holds the gate.
func (e *Engine) Running() bool {
	if e.gate.TryLock() {
		e.gate.Unlock()
		return false
	}
	return true
}

// TryRun executes one pass, or returns ErrPassInProgress when another pass
// holds the gate. The scheduler and the manual trigger share this gate.
func (e *Engine) TryRun(ctx context.Context) (Report, error) {
	if !e.gate.TryLock() {
		return e.Report(), ErrPassInProgress
	}
	defer e.gate.Unlock()

	return e.run(ctx)
}

func (e *Engine) run(ctx context.Context) (Report, error) {
	started := biztime.NowUTC()
	e.setReport(Report{State: StateFetchingProfiles, StartedAt: &started})

	e.logger.Infow("reconciliation pass started")

	profiles, err := e.remote.ListProfiles(ctx)
	if err != nil {
		return e.fail(started, fmt.Errorf("failed to list remote profiles: %w", err))
	}

	e.setReport(Report{State: StateSyncing, StartedAt: &started})

	var counters Counters
	var skipped []SkippedUnit

	err = e.session.WithWriter(ctx, func(w Writer) error {
		for _, remoteProfile := range profiles {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			e.syncProfile(ctx, w, remoteProfile, &counters, &skipped)
		}
		return nil
	})
	if err != nil {
		return e.fail(started, fmt.Errorf("write window failed: %w", err))
	}

	finished := biztime.NowUTC()
	report := Report{
		State:      StateCompleted,
		StartedAt:  &started,
		FinishedAt: &finished,
		Counters:   counters,
		Skipped:    skipped,
	}
	e.setReport(report)

	e.logger.Infow("reconciliation pass completed",
		"profiles", counters.Profiles,
		"meetings", counters.Meetings,
		"transcripts", counters.Transcripts,
		"chat_messages", counters.ChatMessages,
		"summaries", counters.Summaries,
		"skipped", len(skipped),
		"duration", finished.Sub(started),
	)

	return report.clone(), nil
}

// syncProfile applies one profile and everything under it. Failures are
// recorded as skipped units; they never abort the pass.
func (e *Engine) syncProfile(ctx context.Context, w Writer, rp RemoteProfile, counters *Counters, skipped *[]SkippedUnit) {
	if err := w.UpsertProfile(ctx, profileParams(rp)); err != nil {
		e.skip(skipped, "profile", rp.ID, err)
		return
	}
	counters.Profiles++

	meetings, err := e.remote.ListMeetingsForUser(ctx, rp.ID)
	if err != nil {
		e.skip(skipped, "profile_meetings", rp.ID, err)
		return
	}

	for _, rm := range meetings {
		e.syncMeeting(ctx, w, rm, counters, skipped)
	}
}

func (e *Engine) syncMeeting(ctx context.Context, w Writer, rm RemoteMeeting, counters *Counters, skipped *[]SkippedUnit) {
	if err := w.UpsertMeeting(ctx, meetingParams(rm)); err != nil {
		e.skip(skipped, "meeting", rm.ID, err)
		return
	}
	counters.Meetings++

	for _, rt := range rm.Transcripts {
		params, warn := transcriptParams(rt)
		if warn != nil {
			e.logger.Warnw("unparseable transcript timestamp, defaulting to 0",
				"transcript_id", rt.ID, "raw", rt.Timestamp)
		}
		if err := w.UpsertTranscript(ctx, params); err != nil {
			e.skip(skipped, "transcript", rt.ID, err)
			continue
		}
		counters.Transcripts++
	}

	for _, rc := range rm.ChatMessages {
		if err := w.UpsertChatMessage(ctx, chatMessageParams(rc)); err != nil {
			e.skip(skipped, "chat_message", rc.ID, err)
			continue
		}
		counters.ChatMessages++
	}

	if len(rm.Summaries) == 0 {
		return
	}
	if len(rm.Summaries) > 1 {
		e.logger.Warnw("meeting has multiple summaries upstream, taking the first",
			"meeting_id", rm.ID, "count", len(rm.Summaries))
	}

	params, err := summaryParams(rm.Summaries[0])
	if err != nil {
		e.skip(skipped, "summary", rm.Summaries[0].ID, err)
		return
	}
	if err := w.UpsertSummary(ctx, params); err != nil {
		e.skip(skipped, "summary", params.ID, err)
		return
	}
	counters.Summaries++
}

func (e *Engine) skip(skipped *[]SkippedUnit, kind, id string, err error) {
	e.logger.Warnw("skipping unit", "kind", kind, "id", id, "error", err)
	*skipped = append(*skipped, SkippedUnit{Kind: kind, ID: id, Reason: err.Error()})
}

func (e *Engine) fail(started time.Time, err error) (Report, error) {
	finished := biztime.NowUTC()
	report := Report{
		State:      StateFailed,
		StartedAt:  &started,
		FinishedAt: &finished,
		Error:      err.Error(),
	}
	e.setReport(report)
	e.logger.Errorw("reconciliation pass failed", "error", err)
	return report.clone(), err
}

func (e *Engine) setReport(r Report) {
	e.mu.Lock()
	e.report = r
	e.mu.Unlock()
}

func profileParams(rp RemoteProfile) profile.UpsertParams {
	return profile.UpsertParams{
		ID:        rp.ID,
		Email:     rp.Email,
		FullName:  rp.FullName,
		AvatarURL: rp.AvatarURL,
		CreatedAt: rp.CreatedAt,
		UpdatedAt: rp.UpdatedAt,
	}
}

func meetingParams(rm RemoteMeeting) meeting.UpsertParams {
	return meeting.UpsertParams{
		ID:              rm.ID,
		UserID:          rm.UserID,
		Title:           rm.Title,
		Status:          rm.Status,
		StartedAt:       rm.StartedAt,
		EndedAt:         rm.EndedAt,
		DurationSeconds: rm.DurationSeconds,
		CreatedAt:       rm.CreatedAt,
	}
}

// transcriptParams parses the upstream text timestamp; unparseable values
// fall back to 0 and are reported for a warning.
func transcriptParams(rt RemoteTranscript) (meeting.TranscriptUpsertParams, error) {
	var ts float64
	var warn error
	if rt.Timestamp != "" {
		parsed, err := strconv.ParseFloat(rt.Timestamp, 64)
		if err != nil {
			warn = err
		} else {
			ts = parsed
		}
	}

	return meeting.TranscriptUpsertParams{
		ID:           rt.ID,
		MeetingID:    rt.MeetingID,
		Speaker:      rt.Speaker,
		Text:         rt.Text,
		Timestamp:    ts,
		LanguageCode: rt.LanguageCode,
		Confidence:   rt.Confidence,
		CreatedAt:    rt.CreatedAt,
	}, warn
}

func chatMessageParams(rc RemoteChatMessage) meeting.ChatMessageUpsertParams {
	return meeting.ChatMessageUpsertParams{
		ID:        rc.ID,
		MeetingID: rc.MeetingID,
		Role:      rc.Role,
		Content:   rc.Content,
		CreatedAt: rc.CreatedAt,
	}
}

func summaryParams(rs RemoteSummary) (meeting.SummaryUpsertParams, error) {
	items, err := parseActionItems(rs.ActionItems)
	if err != nil {
		return meeting.SummaryUpsertParams{}, err
	}

	return meeting.SummaryUpsertParams{
		ID:          rs.ID,
		MeetingID:   rs.MeetingID,
		SummaryText: rs.SummaryText,
		ActionItems: items,
		UserNotes:   rs.UserNotes,
		CreatedAt:   rs.CreatedAt,
	}, nil
}

func parseActionItems(raw json.RawMessage) ([]meeting.ActionItem, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var items []meeting.ActionItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("malformed action items: %w", err)
	}
	return items, nil
}
