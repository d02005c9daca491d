// Package user implements registration, email verification, login and
// account administration for backend accounts.
package user

import (
	"context"
	"fmt"
	"time"

	"github.com/meetscribe/meetscribe/internal/domain/user"
	"github.com/meetscribe/meetscribe/internal/shared/errors"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

// TokenIssuer signs access tokens for authenticated accounts.
type TokenIssuer interface {
	Generate(userID uint, email string, role user.Role) (token string, expiresIn int64, err error)
}

// Notifier sends the account lifecycle emails. Implementations must not
// fail the calling request on delivery errors.
type Notifier interface {
	SendAccountValidation(ctx context.Context, to, name, validationURL string)
	SendWelcome(ctx context.Context, to, name string)
}

// RegisterParams are the attributes accepted at registration.
type RegisterParams struct {
	Email    string
	Name     string
	Password string
	Role     string
}

// UpdateParams are the mutable account attributes.
type UpdateParams struct {
	Name string
	Role string
}

// AuthResult is a successful login: the signed token plus its lifetime in
// seconds and the authenticated account.
type AuthResult struct {
	Token     string
	ExpiresIn int64
	User      *user.User
}

// Service orchestrates account flows on top of the repository, hasher and
// token issuer.
type Service struct {
	users           user.Repository
	hasher          user.PasswordHasher
	tokens          TokenIssuer
	notifier        Notifier
	baseURL         string
	verificationTTL time.Duration
	logger          logger.Interface
}

func NewService(
	users user.Repository,
	hasher user.PasswordHasher,
	tokens TokenIssuer,
	notifier Notifier,
	baseURL string,
	verificationTTL time.Duration,
	logger logger.Interface,
) *Service {
	if verificationTTL <= 0 {
		verificationTTL = 48 * time.Hour
	}
	return &Service{
		users:           users,
		hasher:          hasher,
		tokens:          tokens,
		notifier:        notifier,
		baseURL:         baseURL,
		verificationTTL: verificationTTL,
		logger:          logger,
	}
}

// Register creates an unverified account and emails the validation link.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*user.User, error) {
	if len(params.Password) < 8 {
		return nil, errors.NewValidationError("password must be at least 8 characters")
	}

	existing, err := s.users.GetByEmail(ctx, params.Email)
	if err != nil {
		s.logger.Errorw("failed to check account email", "email", params.Email, "error", err)
		return nil, errors.NewInternalError("failed to register account")
	}
	if existing != nil {
		return nil, errors.NewConflictError("account with this email already exists")
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		s.logger.Errorw("failed to hash password", "error", err)
		return nil, errors.NewInternalError("failed to register account")
	}

	role := user.Role(params.Role)
	if params.Role == "" {
		role = user.RoleUser
	}
	u, err := user.NewUser(params.Email, params.Name, hash, role, s.verificationTTL)
	if err != nil {
		return nil, errors.NewValidationError("invalid account", err.Error())
	}

	if err := s.users.Create(ctx, u); err != nil {
		s.logger.Errorw("failed to create account", "email", params.Email, "error", err)
		return nil, errors.NewInternalError("failed to register account")
	}

	if token := u.VerificationToken(); token != nil {
		url := fmt.Sprintf("%s/api/auth/validate-email?token=%s", s.baseURL, *token)
		s.notifier.SendAccountValidation(ctx, u.Email(), u.Name(), url)
	}

	s.logger.Infow("account registered", "user_id", u.ID(), "email", u.Email())
	return u, nil
}

// ValidateEmail consumes a verification token and sends the welcome email.
func (s *Service) ValidateEmail(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, errors.NewValidationError("verification token is required")
	}

	u, err := s.users.GetByVerificationToken(ctx, token)
	if err != nil {
		s.logger.Errorw("failed to look up verification token", "error", err)
		return nil, errors.NewInternalError("failed to validate email")
	}
	if u == nil {
		return nil, errors.NewNotFoundError("verification token is invalid or already used")
	}

	if err := u.VerifyEmail(token); err != nil {
		return nil, errors.NewValidationError("cannot validate email", err.Error())
	}
	if err := s.users.Update(ctx, u); err != nil {
		s.logger.Errorw("failed to persist email verification", "user_id", u.ID(), "error", err)
		return nil, errors.NewInternalError("failed to validate email")
	}

	s.notifier.SendWelcome(ctx, u.Email(), u.Name())

	s.logger.Infow("email validated", "user_id", u.ID())
	return u, nil
}

// Login authenticates an account and issues an access token. Unverified
// accounts cannot log in.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Errorw("failed to look up account", "email", email, "error", err)
		return nil, errors.NewInternalError("failed to log in")
	}
	if u == nil {
		return nil, errors.NewUnauthorizedError("invalid email or password")
	}

	if err := s.hasher.Verify(password, u.PasswordHash()); err != nil {
		return nil, errors.NewUnauthorizedError("invalid email or password")
	}

	if !u.EmailVerified() {
		return nil, errors.NewForbiddenError("email address is not verified")
	}

	token, expiresIn, err := s.tokens.Generate(u.ID(), u.Email(), u.Role())
	if err != nil {
		s.logger.Errorw("failed to issue access token", "user_id", u.ID(), "error", err)
		return nil, errors.NewInternalError("failed to log in")
	}

	s.logger.Infow("account logged in", "user_id", u.ID())
	return &AuthResult{Token: token, ExpiresIn: expiresIn, User: u}, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		s.logger.Errorw("failed to get account", "user_id", id, "error", err)
		return nil, errors.NewInternalError("failed to get account")
	}
	if u == nil {
		return nil, errors.NewNotFoundError("account not found")
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, filter user.Filter) ([]*user.User, int64, error) {
	items, total, err := s.users.List(ctx, filter)
	if err != nil {
		s.logger.Errorw("failed to list accounts", "error", err)
		return nil, 0, errors.NewInternalError("failed to list accounts")
	}
	return items, total, nil
}

func (s *Service) Update(ctx context.Context, id uint, params UpdateParams) (*user.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := u.UpdateDetails(params.Name, user.Role(params.Role)); err != nil {
		return nil, errors.NewValidationError("invalid account details", err.Error())
	}
	if err := s.users.Update(ctx, u); err != nil {
		s.logger.Errorw("failed to update account", "user_id", id, "error", err)
		return nil, errors.NewInternalError("failed to update account")
	}

	s.logger.Infow("account updated", "user_id", id)
	return u, nil
}

// ChangePassword verifies the current password before replacing it.
func (s *Service) ChangePassword(ctx context.Context, id uint, current, next string) error {
	if len(next) < 8 {
		return errors.NewValidationError("password must be at least 8 characters")
	}

	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.hasher.Verify(current, u.PasswordHash()); err != nil {
		return errors.NewUnauthorizedError("current password is incorrect")
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		s.logger.Errorw("failed to hash password", "error", err)
		return errors.NewInternalError("failed to change password")
	}
	if err := u.ChangePasswordHash(hash); err != nil {
		return errors.NewValidationError("invalid password", err.Error())
	}
	if err := s.users.Update(ctx, u); err != nil {
		s.logger.Errorw("failed to persist password change", "user_id", id, "error", err)
		return errors.NewInternalError("failed to change password")
	}

	s.logger.Infow("password changed", "user_id", id)
	return nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		s.logger.Errorw("failed to delete account", "user_id", id, "error", err)
		return errors.NewInternalError("failed to delete account")
	}
	s.logger.Infow("account deleted", "user_id", id)
	return nil
}
