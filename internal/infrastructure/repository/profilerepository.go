package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/meetscribe/meetscribe/internal/domain/profile"
	"github.com/meetscribe/meetscribe/internal/infrastructure/persistence/models"
	"github.com/meetscribe/meetscribe/internal/shared/db"
	"github.com/meetscribe/meetscribe/internal/shared/errors"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
	"github.com/meetscribe/meetscribe/internal/shared/utils"
)

type ProfileRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewProfileRepository(database *gorm.DB, logger logger.Interface) profile.Repository {
	return &ProfileRepositoryImpl{
		db:     database,
		logger: logger,
	}
}

func (r *ProfileRepositoryImpl) Create(ctx context.Context, p *profile.Profile) error {
	model := r.toModel(p)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create profile", "error", err, "profile_id", p.ID())
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

func (r *ProfileRepositoryImpl) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	var model models.ProfileModel

	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get profile by ID", "error", err, "profile_id", id)
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return r.toEntity(&model)
}

func (r *ProfileRepositoryImpl) GetByEmail(ctx context.Context, email string) (*profile.Profile, error) {
	var model models.ProfileModel

	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get profile by email", "error", err, "email", email)
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}

	return r.toEntity(&model)
}

func (r *ProfileRepositoryImpl) List(ctx context.Context, filter profile.Filter) ([]*profile.Profile, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProfileModel{})

	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("email LIKE ? OR full_name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count profiles", "error", err)
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	page := utils.ValidatePagination(filter.Page, filter.PerPage)

	var modelList []*models.ProfileModel
	if err := query.
		Order("created_at DESC").
		Scopes(db.Paginate(page.Page, page.PerPage)).
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list profiles", "error", err)
		return nil, 0, fmt.Errorf("failed to list profiles: %w", err)
	}

	return r.toEntities(modelList, total)
}

func (r *ProfileRepositoryImpl) Update(ctx context.Context, p *profile.Profile) error {
	model := r.toModel(p)

	result := r.db.WithContext(ctx).Model(&models.ProfileModel{}).
		Where("id = ?", p.ID()).
		Updates(map[string]interface{}{
			"email":      model.Email,
			"full_name":  model.FullName,
			"avatar_url": model.AvatarURL,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update profile", "error", result.Error, "profile_id", p.ID())
		return fmt.Errorf("failed to update profile: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("profile not found")
	}

	return nil
}

func (r *ProfileRepositoryImpl) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ProfileModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete profile", "error", result.Error, "profile_id", id)
		return fmt.Errorf("failed to delete profile: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("profile not found")
	}

	return nil
}

func (r *ProfileRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ProfileModel{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return total, nil
}

func (r *ProfileRepositoryImpl) toModel(p *profile.Profile) *models.ProfileModel {
	return &models.ProfileModel{
		ID:        p.ID(),
		Email:     p.Email(),
		FullName:  p.FullName(),
		AvatarURL: p.AvatarURL(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

func (r *ProfileRepositoryImpl) toEntity(model *models.ProfileModel) (*profile.Profile, error) {
	entity, err := profile.ReconstructProfile(
		model.ID,
		model.Email,
		model.FullName,
		model.AvatarURL,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct profile %s: %w", model.ID, err)
	}
	return entity, nil
}

func (r *ProfileRepositoryImpl) toEntities(modelList []*models.ProfileModel, total int64) ([]*profile.Profile, int64, error) {
	entities := make([]*profile.Profile, 0, len(modelList))
	for _, model := range modelList {
		entity, err := r.toEntity(model)
		if err != nil {
			return nil, 0, err
		}
		entities = append(entities, entity)
	}
	return entities, total, nil
}
