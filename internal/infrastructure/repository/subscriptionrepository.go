package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/meetscribe/meetscribe/internal/domain/billing"
	"github.com/meetscribe/meetscribe/internal/infrastructure/persistence/models"
	"github.com/meetscribe/meetscribe/internal/shared/errors"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSubscriptionRepository(database *gorm.DB, logger logger.Interface) billing.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     database,
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, s *billing.Subscription) error {
	model := r.toModel(s)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription", "error", err, "user_id", s.UserID())
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := s.SetID(model.ID); err != nil {
		return err
	}

	r.logger.Infow("subscription created", "subscription_id", model.ID, "user_id", s.UserID(), "type", s.Type())
	return nil
}

func (r *SubscriptionRepositoryImpl) GetActiveByUser(ctx context.Context, userID string) (*billing.Subscription, error) {
	var model models.SubscriptionModel

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND stripe_status IN ?", userID, []string{
			billing.StatusActive, billing.StatusTrialing, billing.StatusPastDue,
		}).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get active subscription", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}

	return r.toEntity(&model)
}

func (r *SubscriptionRepositoryImpl) GetByStripeID(ctx context.Context, stripeID string) (*billing.Subscription, error) {
	var model models.SubscriptionModel

	if err := r.db.WithContext(ctx).Where("stripe_id = ?", stripeID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by provider ID", "error", err, "stripe_id", stripeID)
		return nil, fmt.Errorf("failed to get subscription by provider ID: %w", err)
	}

	return r.toEntity(&model)
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, s *billing.Subscription) error {
	model := r.toModel(s)

	result := r.db.WithContext(ctx).Model(&models.SubscriptionModel{}).
		Where("id = ?", s.ID()).
		Updates(map[string]interface{}{
			"stripe_status":        model.StripeStatus,
			"stripe_price":         model.StripePrice,
			"current_period_start": model.CurrentPeriodStart,
			"current_period_end":   model.CurrentPeriodEnd,
			"updated_at":           model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "error", result.Error, "subscription_id", s.ID())
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("subscription not found")
	}

	return nil
}

func (r *SubscriptionRepositoryImpl) toModel(s *billing.Subscription) *models.SubscriptionModel {
	return &models.SubscriptionModel{
		ID:                 s.ID(),
		UserID:             s.UserID(),
		Type:               s.Type(),
		StripeID:           s.StripeID(),
		StripeStatus:       s.StripeStatus(),
		StripePrice:        s.StripePrice(),
		CurrentPeriodStart: s.CurrentPeriodStart(),
		CurrentPeriodEnd:   s.CurrentPeriodEnd(),
		CreatedAt:          s.CreatedAt(),
		UpdatedAt:          s.UpdatedAt(),
	}
}

func (r *SubscriptionRepositoryImpl) toEntity(model *models.SubscriptionModel) (*billing.Subscription, error) {
	entity, err := billing.ReconstructSubscription(
		model.ID,
		model.UserID,
		model.Type,
		model.StripeID,
		model.StripeStatus,
		model.StripePrice,
		model.CurrentPeriodStart,
		model.CurrentPeriodEnd,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription %d: %w", model.ID, err)
	}
	return entity, nil
}
