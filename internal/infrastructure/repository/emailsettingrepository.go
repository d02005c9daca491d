package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/meetscribe/meetscribe/internal/domain/setting"
	"github.com/meetscribe/meetscribe/internal/infrastructure/persistence/models"
	"github.com/meetscribe/meetscribe/internal/shared/errors"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

type EmailSettingRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewEmailSettingRepository(database *gorm.DB, logger logger.Interface) setting.Repository {
	return &EmailSettingRepositoryImpl{
		db:     database,
		logger: logger,
	}
}

func (r *EmailSettingRepositoryImpl) Create(ctx context.Context, s *setting.EmailSetting) error {
	model := r.toModel(s)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create email setting", "error", err, "key", s.Key())
		return fmt.Errorf("failed to create email setting: %w", err)
	}

	if err := s.SetID(model.ID); err != nil {
		return err
	}

	return nil
}

func (r *EmailSettingRepositoryImpl) GetByKey(ctx context.Context, key string) (*setting.EmailSetting, error) {
	var model models.EmailSettingModel

	if err := r.db.WithContext(ctx).Where("`key` = ?", key).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get email setting by key", "error", err, "key", key)
		return nil, fmt.Errorf("failed to get email setting: %w", err)
	}

	return r.toEntity(&model)
}

func (r *EmailSettingRepositoryImpl) GetByID(ctx context.Context, id uint) (*setting.EmailSetting, error) {
	var model models.EmailSettingModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get email setting by ID", "error", err, "setting_id", id)
		return nil, fmt.Errorf("failed to get email setting: %w", err)
	}

	return r.toEntity(&model)
}

func (r *EmailSettingRepositoryImpl) List(ctx context.Context) ([]*setting.EmailSetting, error) {
	var modelList []*models.EmailSettingModel

	if err := r.db.WithContext(ctx).Order("`key` ASC").Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list email settings", "error", err)
		return nil, fmt.Errorf("failed to list email settings: %w", err)
	}

	entities := make([]*setting.EmailSetting, 0, len(modelList))
	for _, model := range modelList {
		entity, err := r.toEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}

	return entities, nil
}

func (r *EmailSettingRepositoryImpl) Update(ctx context.Context, s *setting.EmailSetting) error {
	model := r.toModel(s)

	result := r.db.WithContext(ctx).Model(&models.EmailSettingModel{}).
		Where("id = ?", s.ID()).
		Updates(map[string]interface{}{
			"subject":    model.Subject,
			"body":       model.Body,
			"is_active":  model.IsActive,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update email setting", "error", result.Error, "setting_id", s.ID())
		return fmt.Errorf("failed to update email setting: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("email setting not found")
	}

	return nil
}

func (r *EmailSettingRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.EmailSettingModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete email setting", "error", result.Error, "setting_id", id)
		return fmt.Errorf("failed to delete email setting: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("email setting not found")
	}

	return nil
}

func (r *EmailSettingRepositoryImpl) toModel(s *setting.EmailSetting) *models.EmailSettingModel {
	return &models.EmailSettingModel{
		ID:        s.ID(),
		Key:       s.Key(),
		Subject:   s.Subject(),
		Body:      s.Body(),
		IsActive:  s.IsActive(),
		CreatedAt: s.CreatedAt(),
		UpdatedAt: s.UpdatedAt(),
	}
}

func (r *EmailSettingRepositoryImpl) toEntity(model *models.EmailSettingModel) (*setting.EmailSetting, error) {
	entity, err := setting.ReconstructEmailSetting(
		model.ID,
		model.Key,
		model.Subject,
		model.Body,
		model.IsActive,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct email setting %d: %w", model.ID, err)
	}
	return entity, nil
}
