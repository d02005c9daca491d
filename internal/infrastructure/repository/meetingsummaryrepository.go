package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/meetscribe/meetscribe/internal/domain/meeting"
	"github.com/meetscribe/meetscribe/internal/infrastructure/persistence/models"
	"github.com/meetscribe/meetscribe/internal/shared/errors"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

type MeetingSummaryRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewMeetingSummaryRepository(database *gorm.DB, logger logger.Interface) meeting.SummaryRepository {
	return &MeetingSummaryRepositoryImpl{
		db:     database,
		logger: logger,
	}
}

func (r *MeetingSummaryRepositoryImpl) GetByMeeting(ctx context.Context, meetingID string) (*meeting.Summary, error) {
	var model models.MeetingSummaryModel

	if err := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get meeting summary", "error", err, "meeting_id", meetingID)
		return nil, fmt.Errorf("failed to get meeting summary: %w", err)
	}

	return r.toEntity(&model)
}

func (r *MeetingSummaryRepositoryImpl) UpdateUserNotes(ctx context.Context, meetingID, notes string) error {
	result := r.db.WithContext(ctx).Model(&models.MeetingSummaryModel{}).
		Where("meeting_id = ?", meetingID).
		Update("user_notes", notes)
	if result.Error != nil {
		r.logger.Errorw("failed to update summary notes", "error", result.Error, "meeting_id", meetingID)
		return fmt.Errorf("failed to update summary notes: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("meeting summary not found")
	}

	return nil
}

func (r *MeetingSummaryRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.MeetingSummaryModel{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count meeting summaries: %w", err)
	}
	return total, nil
}

func (r *MeetingSummaryRepositoryImpl) toEntity(model *models.MeetingSummaryModel) (*meeting.Summary, error) {
	var actionItems []meeting.ActionItem
	if len(model.ActionItems) > 0 {
		if err := json.Unmarshal(model.ActionItems, &actionItems); err != nil {
			return nil, fmt.Errorf("failed to unmarshal action items for summary %s: %w", model.ID, err)
		}
	}

	entity, err := meeting.ReconstructSummary(
		model.ID,
		model.MeetingID,
		model.SummaryText,
		actionItems,
		model.UserNotes,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct summary %s: %w", model.ID, err)
	}
	return entity, nil
}
