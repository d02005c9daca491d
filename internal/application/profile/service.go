// Package profile implements the admin CRUD operations over mirrored
// end-user profiles.
package profile

import (
	"context"

	"github.com/meetscribe/meetscribe/internal/domain/profile"
	"github.com/meetscribe/meetscribe/internal/shared/errors"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

// CreateParams are the attributes accepted for direct profile creation.
type CreateParams struct {
	Email     string
	FullName  string
	AvatarURL string
}

// UpdateParams are the mutable attributes of a profile.
type UpdateParams struct {
	FullName  string
	AvatarURL string
}

// Service orchestrates profile CRUD on top of the repository.
type Service struct {
	profiles profile.Repository
	logger   logger.Interface
}

func NewService(profiles profile.Repository, logger logger.Interface) *Service {
	return &Service{
		profiles: profiles,
		logger:   logger,
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*profile.Profile, error) {
	existing, err := s.profiles.GetByEmail(ctx, params.Email)
	if err != nil {
		s.logger.Errorw("failed to check profile email", "email", params.Email, "error", err)
		return nil, errors.NewInternalError("failed to create profile")
	}
	if existing != nil {
		return nil, errors.NewConflictError("profile with this email already exists")
	}

	p, err := profile.NewProfile(params.Email, params.FullName, params.AvatarURL)
	if err != nil {
		return nil, errors.NewValidationError("invalid profile", err.Error())
	}

	if err := s.profiles.Create(ctx, p); err != nil {
		s.logger.Errorw("failed to create profile", "email", params.Email, "error", err)
		return nil, errors.NewInternalError("failed to create profile")
	}

	s.logger.Infow("profile created", "profile_id", p.ID(), "email", p.Email())
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*profile.Profile, error) {
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		s.logger.Errorw("failed to get profile", "profile_id", id, "error", err)
		return nil, errors.NewInternalError("failed to get profile")
	}
	if p == nil {
		return nil, errors.NewNotFoundError("profile not found")
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, filter profile.Filter) ([]*profile.Profile, int64, error) {
	items, total, err := s.profiles.List(ctx, filter)
	if err != nil {
		s.logger.Errorw("failed to list profiles", "error", err)
		return nil, 0, errors.NewInternalError("failed to list profiles")
	}
	return items, total, nil
}

func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*profile.Profile, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	p.UpdateDetails(params.FullName, params.AvatarURL)
	if err := s.profiles.Update(ctx, p); err != nil {
		if errors.IsNotFoundError(err) {
			return nil, err
		}
		s.logger.Errorw("failed to update profile", "profile_id", id, "error", err)
		return nil, errors.NewInternalError("failed to update profile")
	}

	s.logger.Infow("profile updated", "profile_id", id)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.profiles.Delete(ctx, id); err != nil {
		s.logger.Errorw("failed to delete profile", "profile_id", id, "error", err)
		return errors.NewInternalError("failed to delete profile")
	}
	s.logger.Infow("profile deleted", "profile_id", id)
	return nil
}
