// Package meeting implements the admin operations over meetings and their
// child records: transcripts, chat messages and summaries.
package meeting

import (
	"context"
	"time"

	"github.com/meetscribe/meetscribe/internal/domain/meeting"
	"github.com/meetscribe/meetscribe/internal/domain/profile"
	"github.com/meetscribe/meetscribe/internal/shared/errors"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

// CreateParams are the attributes accepted for direct meeting creation.
type CreateParams struct {
	UserID    string
	Title     string
	Status    string
	StartedAt *time.Time
}

// UpdateParams are the mutable attributes of a meeting. Nil fields are left
// unchanged.
type UpdateParams struct {
	Title *string
	EndAt *time.Time
}

// Stats are the aggregate record counts shown on the admin dashboard.
type Stats struct {
	Profiles     int64 `json:"profiles"`
	Meetings     int64 `json:"meetings"`
	Transcripts  int64 `json:"transcripts"`
	ChatMessages int64 `json:"chat_messages"`
	Summaries    int64 `json:"summaries"`
}

// Service orchestrates meeting reads and mutations on top of the
// repositories.
type Service struct {
	meetings    meeting.Repository
	transcripts meeting.TranscriptRepository
	chats       meeting.ChatMessageRepository
	summaries   meeting.SummaryRepository
	profiles    profile.Repository
	logger      logger.Interface
}

func NewService(
	meetings meeting.Repository,
	transcripts meeting.TranscriptRepository,
	chats meeting.ChatMessageRepository,
	summaries meeting.SummaryRepository,
	profiles profile.Repository,
	logger logger.Interface,
) *Service {
	return &Service{
		meetings:    meetings,
		transcripts: transcripts,
		chats:       chats,
		summaries:   summaries,
		profiles:    profiles,
		logger:      logger,
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*meeting.Meeting, error) {
	owner, err := s.profiles.GetByID(ctx, params.UserID)
	if err != nil {
		s.logger.Errorw("failed to check meeting owner", "user_id", params.UserID, "error", err)
		return nil, errors.NewInternalError("failed to create meeting")
	}
	if owner == nil {
		return nil, errors.NewNotFoundError("profile not found")
	}

	status := meeting.Status(params.Status)
	if params.Status == "" {
		status = meeting.StatusScheduled
	}
	m, err := meeting.NewMeeting(params.UserID, params.Title, status, params.StartedAt)
	if err != nil {
		return nil, errors.NewValidationError("invalid meeting", err.Error())
	}

	if err := s.meetings.Create(ctx, m); err != nil {
		s.logger.Errorw("failed to create meeting", "user_id", params.UserID, "error", err)
		return nil, errors.NewInternalError("failed to create meeting")
	}

	s.logger.Infow("meeting created", "meeting_id", m.ID(), "user_id", m.UserID())
	return m, nil
}

func (s *Service) Get(ctx context.Context, id string) (*meeting.Meeting, error) {
	m, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		s.logger.Errorw("failed to get meeting", "meeting_id", id, "error", err)
		return nil, errors.NewInternalError("failed to get meeting")
	}
	if m == nil {
		return nil, errors.NewNotFoundError("meeting not found")
	}
	return m, nil
}

func (s *Service) List(ctx context.Context, filter meeting.Filter) ([]*meeting.Meeting, int64, error) {
	items, total, err := s.meetings.List(ctx, filter)
	if err != nil {
		s.logger.Errorw("failed to list meetings", "error", err)
		return nil, 0, errors.NewInternalError("failed to list meetings")
	}
	return items, total, nil
}

func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*meeting.Meeting, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		m.Rename(*params.Title)
	}
	if params.EndAt != nil {
		if err := m.End(*params.EndAt); err != nil {
			return nil, errors.NewValidationError("cannot end meeting", err.Error())
		}
	}

	if err := s.meetings.Update(ctx, m); err != nil {
		if errors.IsNotFoundError(err) {
			return nil, err
		}
		s.logger.Errorw("failed to update meeting", "meeting_id", id, "error", err)
		return nil, errors.NewInternalError("failed to update meeting")
	}

	s.logger.Infow("meeting updated", "meeting_id", id)
	return m, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.meetings.Delete(ctx, id); err != nil {
		s.logger.Errorw("failed to delete meeting", "meeting_id", id, "error", err)
		return errors.NewInternalError("failed to delete meeting")
	}
	s.logger.Infow("meeting deleted", "meeting_id", id)
	return nil
}

// ListTranscripts returns the segments of a meeting in playback order.
// Tombstoned segments are excluded.
func (s *Service) ListTranscripts(ctx context.Context, meetingID string) ([]*meeting.Transcript, error) {
	if _, err := s.Get(ctx, meetingID); err != nil {
		return nil, err
	}
	items, err := s.transcripts.ListByMeeting(ctx, meetingID)
	if err != nil {
		s.logger.Errorw("failed to list transcripts", "meeting_id", meetingID, "error", err)
		return nil, errors.NewInternalError("failed to list transcripts")
	}
	return items, nil
}

// DeleteTranscript tombstones one segment. The segment stays invisible even
// if a later sync pass sees it again upstream.
func (s *Service) DeleteTranscript(ctx context.Context, id string) error {
	if err := s.transcripts.Delete(ctx, id); err != nil {
		if errors.IsNotFoundError(err) {
			return err
		}
		s.logger.Errorw("failed to delete transcript", "transcript_id", id, "error", err)
		return errors.NewInternalError("failed to delete transcript")
	}
	s.logger.Infow("transcript deleted", "transcript_id", id)
	return nil
}

// ListChatMessages returns the assistant conversation of a meeting in
// chronological order.
func (s *Service) ListChatMessages(ctx context.Context, meetingID string) ([]*meeting.ChatMessage, error) {
	if _, err := s.Get(ctx, meetingID); err != nil {
		return nil, err
	}
	items, err := s.chats.ListByMeeting(ctx, meetingID)
	if err != nil {
		s.logger.Errorw("failed to list chat messages", "meeting_id", meetingID, "error", err)
		return nil, errors.NewInternalError("failed to list chat messages")
	}
	return items, nil
}

func (s *Service) DeleteChatMessage(ctx context.Context, id string) error {
	if err := s.chats.Delete(ctx, id); err != nil {
		if errors.IsNotFoundError(err) {
			return err
		}
		s.logger.Errorw("failed to delete chat message", "message_id", id, "error", err)
		return errors.NewInternalError("failed to delete chat message")
	}
	s.logger.Infow("chat message deleted", "message_id", id)
	return nil
}

// GetSummary returns the meeting's summary, or a not-found error when no
// summary has been generated yet.
func (s *Service) GetSummary(ctx context.Context, meetingID string) (*meeting.Summary, error) {
	if _, err := s.Get(ctx, meetingID); err != nil {
		return nil, err
	}
	sum, err := s.summaries.GetByMeeting(ctx, meetingID)
	if err != nil {
		s.logger.Errorw("failed to get summary", "meeting_id", meetingID, "error", err)
		return nil, errors.NewInternalError("failed to get summary")
	}
	if sum == nil {
		return nil, errors.NewNotFoundError("meeting has no summary")
	}
	return sum, nil
}

// UpdateSummaryNotes replaces the operator notes attached to a summary.
func (s *Service) UpdateSummaryNotes(ctx context.Context, meetingID, notes string) (*meeting.Summary, error) {
	if err := s.summaries.UpdateUserNotes(ctx, meetingID, notes); err != nil {
		if errors.IsNotFoundError(err) {
			return nil, err
		}
		s.logger.Errorw("failed to update summary notes", "meeting_id", meetingID, "error", err)
		return nil, errors.NewInternalError("failed to update summary notes")
	}
	return s.GetSummary(ctx, meetingID)
}

// GetStats returns aggregate record counts across the mirrored tables.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	var err error

	if stats.Profiles, err = s.profiles.Count(ctx); err != nil {
		s.logger.Errorw("failed to count profiles", "error", err)
		return nil, errors.NewInternalError("failed to load stats")
	}
	if stats.Meetings, err = s.meetings.Count(ctx); err != nil {
		s.logger.Errorw("failed to count meetings", "error", err)
		return nil, errors.NewInternalError("failed to load stats")
	}
	if stats.Transcripts, err = s.transcripts.Count(ctx); err != nil {
		s.logger.Errorw("failed to count transcripts", "error", err)
		return nil, errors.NewInternalError("failed to load stats")
	}
	if stats.ChatMessages, err = s.chats.Count(ctx); err != nil {
		s.logger.Errorw("failed to count chat messages", "error", err)
		return nil, errors.NewInternalError("failed to load stats")
	}
	if stats.Summaries, err = s.summaries.Count(ctx); err != nil {
		s.logger.Errorw("failed to count summaries", "error", err)
		return nil, errors.NewInternalError("failed to load stats")
	}

	return stats, nil
}
