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

type ChatMessageRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewChatMessageRepository(database *gorm.DB, logger logger.Interface) meeting.ChatMessageRepository {
	return &ChatMessageRepositoryImpl{
		db:     database,
		logger: logger,
	}
}

func (r *ChatMessageRepositoryImpl) ListByMeeting(ctx context.Context, meetingID string) ([]*meeting.ChatMessage, error) {
	var modelList []*models.ChatMessageModel

	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list chat messages", "error", err, "meeting_id", meetingID)
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}

	entities := make([]*meeting.ChatMessage, 0, len(modelList))
	for _, model := range modelList {
		entity, err := meeting.ReconstructChatMessage(
			model.ID,
			model.MeetingID,
			meeting.ChatRole(model.Role),
			model.Content,
			model.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to reconstruct chat message %s: %w", model.ID, err)
		}
		entities = append(entities, entity)
	}

	return entities, nil
}

func (r *ChatMessageRepositoryImpl) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ChatMessageModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete chat message", "error", result.Error, "chat_message_id", id)
		return fmt.Errorf("failed to delete chat message: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("chat message not found")
	}

	return nil
}

func (r *ChatMessageRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ChatMessageModel{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count chat messages: %w", err)
	}
	return total, nil
}
