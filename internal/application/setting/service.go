// Package setting implements CRUD over the operator-editable email
// templates.
package setting

import (
	"context"

	"github.com/meetscribe/meetscribe/internal/domain/setting"
	"github.com/meetscribe/meetscribe/internal/shared/errors"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

// CreateParams are the attributes of a new template row.
type CreateParams struct {
	Key     string
	Subject string
	Body    string
}

// UpdateParams are the mutable attributes of a template row. A nil IsActive
// leaves the activation state unchanged.
type UpdateParams struct {
	Subject  string
	Body     string
	IsActive *bool
}

// Service orchestrates email template CRUD on top of the repository.
type Service struct {
	settings setting.Repository
	logger   logger.Interface
}

func NewService(settings setting.Repository, logger logger.Interface) *Service {
	return &Service{
		settings: settings,
		logger:   logger,
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*setting.EmailSetting, error) {
	existing, err := s.settings.GetByKey(ctx, params.Key)
	if err != nil {
		s.logger.Errorw("failed to check email setting key", "key", params.Key, "error", err)
		return nil, errors.NewInternalError("failed to create email setting")
	}
	if existing != nil {
		return nil, errors.NewConflictError("email setting with this key already exists")
	}

	row, err := setting.NewEmailSetting(params.Key, params.Subject, params.Body)
	if err != nil {
		return nil, errors.NewValidationError("invalid email setting", err.Error())
	}

	if err := s.settings.Create(ctx, row); err != nil {
		s.logger.Errorw("failed to create email setting", "key", params.Key, "error", err)
		return nil, errors.NewInternalError("failed to create email setting")
	}

	s.logger.Infow("email setting created", "key", params.Key)
	return row, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*setting.EmailSetting, error) {
	row, err := s.settings.GetByID(ctx, id)
	if err != nil {
		s.logger.Errorw("failed to get email setting", "setting_id", id, "error", err)
		return nil, errors.NewInternalError("failed to get email setting")
	}
	if row == nil {
		return nil, errors.NewNotFoundError("email setting not found")
	}
	return row, nil
}

func (s *Service) List(ctx context.Context) ([]*setting.EmailSetting, error) {
	items, err := s.settings.List(ctx)
	if err != nil {
		s.logger.Errorw("failed to list email settings", "error", err)
		return nil, errors.NewInternalError("failed to list email settings")
	}
	return items, nil
}

func (s *Service) Update(ctx context.Context, id uint, params UpdateParams) (*setting.EmailSetting, error) {
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := row.UpdateContent(params.Subject, params.Body); err != nil {
		return nil, errors.NewValidationError("invalid email setting", err.Error())
	}
	if params.IsActive != nil {
		if *params.IsActive {
			row.Activate()
		} else {
			row.Deactivate()
		}
	}

	if err := s.settings.Update(ctx, row); err != nil {
		s.logger.Errorw("failed to update email setting", "setting_id", id, "error", err)
		return nil, errors.NewInternalError("failed to update email setting")
	}

	s.logger.Infow("email setting updated", "setting_id", id, "key", row.Key())
	return row, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.settings.Delete(ctx, id); err != nil {
		s.logger.Errorw("failed to delete email setting", "setting_id", id, "error", err)
		return errors.NewInternalError("failed to delete email setting")
	}
	s.logger.Infow("email setting deleted", "setting_id", id)
	return nil
}
