package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/meetscribe/meetscribe/internal/domain/billing"
	"github.com/meetscribe/meetscribe/internal/infrastructure/persistence/models"
	"github.com/meetscribe/meetscribe/internal/shared/db"
	"github.com/meetscribe/meetscribe/internal/shared/errors"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
	"github.com/meetscribe/meetscribe/internal/shared/utils"
)

type PlanRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPlanRepository(database *gorm.DB, logger logger.Interface) billing.PlanRepository {
	return &PlanRepositoryImpl{
		db:     database,
		logger: logger,
	}
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, p *billing.Plan) error {
	model := r.toModel(p)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create plan", "error", err, "name", p.Name())
		return fmt.Errorf("failed to create plan: %w", err)
	}

	if err := p.SetID(model.ID); err != nil {
		return err
	}

	r.logger.Infow("plan created", "plan_id", model.ID, "name", p.Name())
	return nil
}

func (r *PlanRepositoryImpl) GetByID(ctx context.Context, id uint) (*billing.Plan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan by ID", "error", err, "plan_id", id)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return r.toEntity(&model)
}

func (r *PlanRepositoryImpl) GetByName(ctx context.Context, name string) (*billing.Plan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan by name", "error", err, "name", name)
		return nil, fmt.Errorf("failed to get plan by name: %w", err)
	}

	return r.toEntity(&model)
}

func (r *PlanRepositoryImpl) GetByStripePriceID(ctx context.Context, priceID string) (*billing.Plan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).Where("stripe_price_id = ?", priceID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan by price ID", "error", err, "price_id", priceID)
		return nil, fmt.Errorf("failed to get plan by price ID: %w", err)
	}

	return r.toEntity(&model)
}

func (r *PlanRepositoryImpl) ListActive(ctx context.Context) ([]*billing.Plan, error) {
	var modelList []*models.PlanModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("amount ASC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list active plans", "error", err)
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}

	entities := make([]*billing.Plan, 0, len(modelList))
	for _, model := range modelList {
		entity, err := r.toEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}

	return entities, nil
}

func (r *PlanRepositoryImpl) List(ctx context.Context, page, perPage int) ([]*billing.Plan, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.PlanModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count plans: %w", err)
	}

	p := utils.ValidatePagination(page, perPage)

	var modelList []*models.PlanModel
	if err := r.db.WithContext(ctx).
		Order("amount ASC").
		Scopes(db.Paginate(p.Page, p.PerPage)).
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list plans", "error", err)
		return nil, 0, fmt.Errorf("failed to list plans: %w", err)
	}

	entities := make([]*billing.Plan, 0, len(modelList))
	for _, model := range modelList {
		entity, err := r.toEntity(model)
		if err != nil {
			return nil, 0, err
		}
		entities = append(entities, entity)
	}

	return entities, total, nil
}

func (r *PlanRepositoryImpl) Update(ctx context.Context, p *billing.Plan) error {
	model := r.toModel(p)

	result := r.db.WithContext(ctx).Model(&models.PlanModel{}).
		Where("id = ?", p.ID()).
		Updates(map[string]interface{}{
			"name":              model.Name,
			"stripe_product_id": model.StripeProductID,
			"stripe_price_id":   model.StripePriceID,
			"billing_interval":  model.BillingInterval,
			"amount":            model.Amount,
			"currency":          model.Currency,
			"trial_days":        model.TrialDays,
			"quota":             model.Quota,
			"minutes":           model.Minutes,
			"is_active":         model.IsActive,
			"updated_at":        model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update plan", "error", result.Error, "plan_id", p.ID())
		return fmt.Errorf("failed to update plan: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("plan not found")
	}

	return nil
}

func (r *PlanRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.PlanModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete plan", "error", result.Error, "plan_id", id)
		return fmt.Errorf("failed to delete plan: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("plan not found")
	}

	return nil
}

func (r *PlanRepositoryImpl) toModel(p *billing.Plan) *models.PlanModel {
	return &models.PlanModel{
		ID:              p.ID(),
		Name:            p.Name(),
		StripeProductID: p.StripeProductID(),
		StripePriceID:   p.StripePriceID(),
		BillingInterval: string(p.Interval()),
		Amount:          p.Amount(),
		Currency:        p.Currency(),
		TrialDays:       p.TrialDays(),
		Quota:           p.Quota(),
		Minutes:         p.Minutes(),
		IsActive:        p.IsActive(),
		CreatedAt:       p.CreatedAt(),
		UpdatedAt:       p.UpdatedAt(),
	}
}

func (r *PlanRepositoryImpl) toEntity(model *models.PlanModel) (*billing.Plan, error) {
	entity, err := billing.ReconstructPlan(
		model.ID,
		model.Name,
		model.StripeProductID,
		model.StripePriceID,
		billing.Interval(model.BillingInterval),
		model.Amount,
		model.Currency,
		model.TrialDays,
		model.Quota,
		model.Minutes,
		model.IsActive,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct plan %d: %w", model.ID, err)
	}
	return entity, nil
}
