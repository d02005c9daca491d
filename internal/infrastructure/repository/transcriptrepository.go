package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/meetscribe/meetscribe/internal/domain/meeting"
	"github.com/meetscribe/meetscribe/internal/infrastructure/persistence/models"
	"github.com/meetscribe/meetscribe/internal/shared/errors"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

type TranscriptRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewTranscriptRepository(database *gorm.DB, logger logger.Interface) meeting.TranscriptRepository {
	return &TranscriptRepositoryImpl{
		db:     database,
		logger: logger,
	}
}

func (r *TranscriptRepositoryImpl) ListByMeeting(ctx context.Context, meetingID string) ([]*meeting.Transcript, error) {
	var modelList []*models.TranscriptModel

	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("timestamp ASC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list transcripts", "error", err, "meeting_id", meetingID)
		return nil, fmt.Errorf("failed to list transcripts: %w", err)
	}

	entities := make([]*meeting.Transcript, 0, len(modelList))
	for _, model := range modelList {
		entity, err := r.toEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}

	return entities, nil
}

func (r *TranscriptRepositoryImpl) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.TranscriptModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete transcript", "error", result.Error, "transcript_id", id)
		return fmt.Errorf("failed to delete transcript: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("transcript not found")
	}

	return nil
}

func (r *TranscriptRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.TranscriptModel{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count transcripts: %w", err)
	}
	return total, nil
}

func (r *TranscriptRepositoryImpl) toEntity(model *models.TranscriptModel) (*meeting.Transcript, error) {
	entity, err := meeting.ReconstructTranscript(
		model.ID,
		model.MeetingID,
		model.Speaker,
		model.Text,
		model.Timestamp,
		model.LanguageCode,
		model.Confidence,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct transcript %s: %w", model.ID, err)
	}
	return entity, nil
}
