package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/meetscribe/meetscribe/internal/domain/meeting"
	"github.com/meetscribe/meetscribe/internal/infrastructure/persistence/models"
	"github.com/meetscribe/meetscribe/internal/shared/db"
	"github.com/meetscribe/meetscribe/internal/shared/errors"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
	"github.com/meetscribe/meetscribe/internal/shared/utils"
)

type MeetingRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewMeetingRepository(database *gorm.DB, logger logger.Interface) meeting.Repository {
	return &MeetingRepositoryImpl{
		db:     database,
		logger: logger,
	}
}

func (r *MeetingRepositoryImpl) Create(ctx context.Context, m *meeting.Meeting) error {
	model := r.toModel(m)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create meeting", "error", err, "meeting_id", m.ID())
		return fmt.Errorf("failed to create meeting: %w", err)
	}

	return nil
}

func (r *MeetingRepositoryImpl) GetByID(ctx context.Context, id string) (*meeting.Meeting, error) {
	var model models.MeetingModel

	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get meeting by ID", "error", err, "meeting_id", id)
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}

	return r.toEntity(&model)
}

func (r *MeetingRepositoryImpl) List(ctx context.Context, filter meeting.Filter) ([]*meeting.Meeting, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.MeetingModel{})

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count meetings", "error", err)
		return nil, 0, fmt.Errorf("failed to count meetings: %w", err)
	}

	page := utils.ValidatePagination(filter.Page, filter.PerPage)

	var modelList []*models.MeetingModel
	if err := query.
		Order("created_at DESC").
		Scopes(db.Paginate(page.Page, page.PerPage)).
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list meetings", "error", err)
		return nil, 0, fmt.Errorf("failed to list meetings: %w", err)
	}

	entities := make([]*meeting.Meeting, 0, len(modelList))
	for _, model := range modelList {
		entity, err := r.toEntity(model)
		if err != nil {
			return nil, 0, err
		}
		entities = append(entities, entity)
	}

	return entities, total, nil
}

func (r *MeetingRepositoryImpl) Update(ctx context.Context, m *meeting.Meeting) error {
	model := r.toModel(m)

	result := r.db.WithContext(ctx).Model(&models.MeetingModel{}).
		Where("id = ?", m.ID()).
		Updates(map[string]interface{}{
			"title":            model.Title,
			"status":           model.Status,
			"started_at":       model.StartedAt,
			"ended_at":         model.EndedAt,
			"duration_seconds": model.DurationSeconds,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update meeting", "error", result.Error, "meeting_id", m.ID())
		return fmt.Errorf("failed to update meeting: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("meeting not found")
	}

	return nil
}

func (r *MeetingRepositoryImpl) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MeetingModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete meeting", "error", result.Error, "meeting_id", id)
		return fmt.Errorf("failed to delete meeting: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("meeting not found")
	}

	return nil
}

func (r *MeetingRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.MeetingModel{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count meetings: %w", err)
	}
	return total, nil
}

func (r *MeetingRepositoryImpl) toModel(m *meeting.Meeting) *models.MeetingModel {
	return &models.MeetingModel{
		ID:              m.ID(),
		UserID:          m.UserID(),
		Title:           m.Title(),
		Status:          m.Status().String(),
		StartedAt:       m.StartedAt(),
		EndedAt:         m.EndedAt(),
		DurationSeconds: m.DurationSeconds(),
		CreatedAt:       m.CreatedAt(),
	}
}

func (r *MeetingRepositoryImpl) toEntity(model *models.MeetingModel) (*meeting.Meeting, error) {
	entity, err := meeting.ReconstructMeeting(
		model.ID,
		model.UserID,
		model.Title,
		meeting.Status(model.Status),
		model.StartedAt,
		model.EndedAt,
		model.DurationSeconds,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct meeting %s: %w", model.ID, err)
	}
	return entity, nil
}
