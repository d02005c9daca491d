package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	appsync "github.com/meetscribe/meetscribe/internal/application/sync"
	"github.com/meetscribe/meetscribe/internal/domain/meeting"
	"github.com/meetscribe/meetscribe/internal/domain/profile"
	"github.com/meetscribe/meetscribe/internal/infrastructure/database"
	"github.com/meetscribe/meetscribe/internal/infrastructure/persistence/models"
	"github.com/meetscribe/meetscribe/internal/shared/biztime"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

// SyncWriterSession opens the write window for one reconciliation pass. All
// upserts of the pass run on one pinned connection with referential checks
// relaxed, so children can land before their parents.
type SyncWriterSession struct {
	guard  *database.ForeignKeyGuard
	logger logger.Interface
}

func NewSyncWriterSession(guard *database.ForeignKeyGuard, logger logger.Interface) appsync.WriterSession {
	return &SyncWriterSession{
		guard:  guard,
		logger: logger,
	}
}

func (s *SyncWriterSession) WithWriter(ctx context.Context, fn func(w appsync.Writer) error) error {
	return s.guard.WithRelaxedChecks(ctx, func(conn *gorm.DB) error {
		return fn(&SyncWriterImpl{db: conn, logger: s.logger})
	})
}

// SyncWriterImpl applies idempotent find-or-create upserts on the pinned
// connection. Absent optional fields are left untouched on update and fall
// back to defaults on insert.
type SyncWriterImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func (w *SyncWriterImpl) UpsertProfile(ctx context.Context, params profile.UpsertParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	var existing models.ProfileModel
	err := w.db.WithContext(ctx).Where("id = ?", params.ID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		model := &models.ProfileModel{
			ID:        params.ID,
			Email:     params.Email,
			FullName:  stringOrEmpty(params.FullName),
			AvatarURL: stringOrEmpty(params.AvatarURL),
			CreatedAt: timeOrNow(params.CreatedAt),
			UpdatedAt: timeOrNow(params.UpdatedAt),
		}
		if createErr := w.db.WithContext(ctx).Create(model).Error; createErr != nil {
			return fmt.Errorf("failed to insert profile %s: %w", params.ID, createErr)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up profile %s: %w", params.ID, err)
	}

	updates := map[string]interface{}{
		"email": params.Email,
	}
	if params.FullName != nil {
		updates["full_name"] = *params.FullName
	}
	if params.AvatarURL != nil {
		updates["avatar_url"] = *params.AvatarURL
	}
	if params.UpdatedAt != nil {
		updates["updated_at"] = *params.UpdatedAt
	}

	if updateErr := w.db.WithContext(ctx).Model(&models.ProfileModel{}).
		Where("id = ?", params.ID).
		Updates(updates).Error; updateErr != nil {
		return fmt.Errorf("failed to update profile %s: %w", params.ID, updateErr)
	}
	return nil
}

func (w *SyncWriterImpl) UpsertMeeting(ctx context.Context, params meeting.UpsertParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	var existing models.MeetingModel
	err := w.db.WithContext(ctx).Where("id = ?", params.ID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		model := &models.MeetingModel{
			ID:              params.ID,
			UserID:          params.UserID,
			Title:           stringOrEmpty(params.Title),
			Status:          statusOrDefault(params.Status),
			StartedAt:       params.StartedAt,
			EndedAt:         params.EndedAt,
			DurationSeconds: params.DurationSeconds,
			CreatedAt:       timeOrNow(params.CreatedAt),
		}
		if createErr := w.db.WithContext(ctx).Create(model).Error; createErr != nil {
			return fmt.Errorf("failed to insert meeting %s: %w", params.ID, createErr)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up meeting %s: %w", params.ID, err)
	}

	updates := map[string]interface{}{
		"user_id": params.UserID,
	}
	if params.Title != nil {
		updates["title"] = *params.Title
	}
	if params.Status != nil {
		updates["status"] = *params.Status
	}
	if params.StartedAt != nil {
		updates["started_at"] = *params.StartedAt
	}
	if params.EndedAt != nil {
		updates["ended_at"] = *params.EndedAt
	}
	if params.DurationSeconds != nil {
		updates["duration_seconds"] = *params.DurationSeconds
	}

	if updateErr := w.db.WithContext(ctx).Model(&models.MeetingModel{}).
		Where("id = ?", params.ID).
		Updates(updates).Error; updateErr != nil {
		return fmt.Errorf("failed to update meeting %s: %w", params.ID, updateErr)
	}
	return nil
}

// UpsertTranscript matches rows unscoped so that locally tombstoned
// transcripts are updated in place instead of resurrected by the next pass.
func (w *SyncWriterImpl) UpsertTranscript(ctx context.Context, params meeting.TranscriptUpsertParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	var existing models.TranscriptModel
	err := w.db.WithContext(ctx).Unscoped().Where("id = ?", params.ID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		model := &models.TranscriptModel{
			ID:           params.ID,
			MeetingID:    params.MeetingID,
			Speaker:      params.Speaker,
			Text:         params.Text,
			Timestamp:    params.Timestamp,
			LanguageCode: params.LanguageCode,
			Confidence:   params.Confidence,
			CreatedAt:    timeOrNow(params.CreatedAt),
		}
		if createErr := w.db.WithContext(ctx).Create(model).Error; createErr != nil {
			return fmt.Errorf("failed to insert transcript %s: %w", params.ID, createErr)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up transcript %s: %w", params.ID, err)
	}

	updates := map[string]interface{}{
		"meeting_id": params.MeetingID,
		"speaker":    params.Speaker,
		"text":       params.Text,
		"timestamp":  params.Timestamp,
	}
	if params.LanguageCode != nil {
		updates["language_code"] = *params.LanguageCode
	}
	if params.Confidence != nil {
		updates["confidence"] = *params.Confidence
	}

	if updateErr := w.db.WithContext(ctx).Unscoped().Model(&models.TranscriptModel{}).
		Where("id = ?", params.ID).
		Updates(updates).Error; updateErr != nil {
		return fmt.Errorf("failed to update transcript %s: %w", params.ID, updateErr)
	}
	return nil
}

func (w *SyncWriterImpl) UpsertChatMessage(ctx context.Context, params meeting.ChatMessageUpsertParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	var existing models.ChatMessageModel
	err := w.db.WithContext(ctx).Where("id = ?", params.ID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		role := params.Role
		if role == "" {
			role = string(meeting.ChatRoleUser)
		}
		model := &models.ChatMessageModel{
			ID:        params.ID,
			MeetingID: params.MeetingID,
			Role:      role,
			Content:   params.Content,
			CreatedAt: timeOrNow(params.CreatedAt),
		}
		if createErr := w.db.WithContext(ctx).Create(model).Error; createErr != nil {
			return fmt.Errorf("failed to insert chat message %s: %w", params.ID, createErr)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up chat message %s: %w", params.ID, err)
	}

	updates := map[string]interface{}{
		"meeting_id": params.MeetingID,
		"content":    params.Content,
	}
	if params.Role != "" {
		updates["role"] = params.Role
	}

	if updateErr := w.db.WithContext(ctx).Model(&models.ChatMessageModel{}).
		Where("id = ?", params.ID).
		Updates(updates).Error; updateErr != nil {
		return fmt.Errorf("failed to update chat message %s: %w", params.ID, updateErr)
	}
	return nil
}

// UpsertSummary is keyed by meeting id: a newer summary for the same meeting
// replaces the existing row instead of adding a second one.
func (w *SyncWriterImpl) UpsertSummary(ctx context.Context, params meeting.SummaryUpsertParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	actionItems, err := marshalActionItems(params.ActionItems)
	if err != nil {
		return fmt.Errorf("summary %s: %w", params.ID, err)
	}

	var existing models.MeetingSummaryModel
	lookupErr := w.db.WithContext(ctx).Where("meeting_id = ?", params.MeetingID).First(&existing).Error
	if lookupErr == gorm.ErrRecordNotFound {
		model := &models.MeetingSummaryModel{
			ID:          params.ID,
			MeetingID:   params.MeetingID,
			SummaryText: stringOrEmpty(params.SummaryText),
			ActionItems: actionItems,
			UserNotes:   stringOrEmpty(params.UserNotes),
			CreatedAt:   timeOrNow(params.CreatedAt),
		}
		if createErr := w.db.WithContext(ctx).Create(model).Error; createErr != nil {
			return fmt.Errorf("failed to insert summary %s: %w", params.ID, createErr)
		}
		return nil
	}
	if lookupErr != nil {
		return fmt.Errorf("failed to look up summary for meeting %s: %w", params.MeetingID, lookupErr)
	}

	updates := map[string]interface{}{
		"id": params.ID,
	}
	if params.SummaryText != nil {
		updates["summary_text"] = *params.SummaryText
	}
	if params.ActionItems != nil {
		updates["action_items"] = actionItems
	}
	if params.UserNotes != nil {
		updates["user_notes"] = *params.UserNotes
	}
	if params.CreatedAt != nil {
		updates["created_at"] = *params.CreatedAt
	}

	if updateErr := w.db.WithContext(ctx).Model(&models.MeetingSummaryModel{}).
		Where("meeting_id = ?", params.MeetingID).
		Updates(updates).Error; updateErr != nil {
		return fmt.Errorf("failed to update summary for meeting %s: %w", params.MeetingID, updateErr)
	}
	return nil
}

func marshalActionItems(items []meeting.ActionItem) (datatypes.JSON, error) {
	if items == nil {
		return nil, nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal action items: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timeOrNow(t *time.Time) time.Time {
	if t == nil {
		return biztime.NowUTC()
	}
	return *t
}

func statusOrDefault(s *string) string {
	if s == nil {
		return string(meeting.StatusScheduled)
	}
	return *s
}
