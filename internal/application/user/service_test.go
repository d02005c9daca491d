package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meetscribe/meetscribe/internal/domain/user"
	"github.com/meetscribe/meetscribe/internal/shared/errors"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uint) (*user.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetByVerificationToken(ctx context.Context, token string) (*user.User, error) {
	args := m.Called(ctx, token)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context, filter user.Filter) ([]*user.User, int64, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]*user.User)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockUserRepo) Update(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Verify(password, hash string) error {
	if "hashed:"+password != hash {
		return assert.AnError
	}
	return nil
}

type staticIssuer struct{}

func (staticIssuer) Generate(userID uint, email string, role user.Role) (string, int64, error) {
	return "token-123", 3600, nil
}

type recordingNotifier struct {
	validations []string
	welcomes    []string
}

func (n *recordingNotifier) SendAccountValidation(ctx context.Context, to, name, validationURL string) {
	n.validations = append(n.validations, validationURL)
}

func (n *recordingNotifier) SendWelcome(ctx context.Context, to, name string) {
	n.welcomes = append(n.welcomes, to)
}

func newTestService(repo *mockUserRepo, notifier *recordingNotifier) *Service {
	return NewService(repo, plainHasher{}, staticIssuer{}, notifier, "https://admin.example.com", time.Hour, logger.NewLogger())
}

func verifiedUser(t *testing.T, id uint, email, password string) *user.User {
	t.Helper()
	u, err := user.ReconstructUser(
		id, email, "Test User", "hashed:"+password, user.RoleAdmin,
		true, nil, nil,
		time.Now().UTC(), time.Now().UTC(),
	)
	require.NoError(t, err)
	return u
}

func TestService_Register(t *testing.T) {
	t.Run("creates account and emails validation link", func(t *testing.T) {
		repo := &mockUserRepo{}
		notifier := &recordingNotifier{}
		svc := newTestService(repo, notifier)

		repo.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		u, err := svc.Register(t.Context(), RegisterParams{
			Email:    "new@example.com",
			Name:     "New User",
			Password: "s3cret-pass",
		})
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", u.Email())
		assert.False(t, u.EmailVerified())

		require.Len(t, notifier.validations, 1)
		assert.Contains(t, notifier.validations[0], "https://admin.example.com/api/auth/validate-email?token=")
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		repo := &mockUserRepo{}
		svc := newTestService(repo, &recordingNotifier{})

		existing := verifiedUser(t, 7, "taken@example.com", "whatever1")
		repo.On("GetByEmail", mock.Anything, "taken@example.com").Return(existing, nil)

		_, err := svc.Register(t.Context(), RegisterParams{
			Email:    "taken@example.com",
			Password: "s3cret-pass",
		})
		assert.True(t, errors.IsConflictError(err))
	})

	t.Run("rejects short password", func(t *testing.T) {
		svc := newTestService(&mockUserRepo{}, &recordingNotifier{})

		_, err := svc.Register(t.Context(), RegisterParams{
			Email:    "new@example.com",
			Password: "short",
		})
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestService_ValidateEmail(t *testing.T) {
	t.Run("verifies account and sends welcome", func(t *testing.T) {
		repo := &mockUserRepo{}
		notifier := &recordingNotifier{}
		svc := newTestService(repo, notifier)

		token := "tok-abc"
		expires := time.Now().UTC().Add(time.Hour)
		u, err := user.ReconstructUser(
			3, "pending@example.com", "Pending", "hashed:pw", user.RoleUser,
			false, &token, &expires,
			time.Now().UTC(), time.Now().UTC(),
		)
		require.NoError(t, err)

		repo.On("GetByVerificationToken", mock.Anything, token).Return(u, nil)
		repo.On("Update", mock.Anything, u).Return(nil)

		got, err := svc.ValidateEmail(t.Context(), token)
		require.NoError(t, err)
		assert.True(t, got.EmailVerified())
		assert.Equal(t, []string{"pending@example.com"}, notifier.welcomes)
	})

	t.Run("unknown token is not found", func(t *testing.T) {
		repo := &mockUserRepo{}
		svc := newTestService(repo, &recordingNotifier{})

		repo.On("GetByVerificationToken", mock.Anything, "nope").Return(nil, nil)

		_, err := svc.ValidateEmail(t.Context(), "nope")
		assert.True(t, errors.IsNotFoundError(err))
	})
}

func TestService_Login(t *testing.T) {
	t.Run("issues token for verified account", func(t *testing.T) {
		repo := &mockUserRepo{}
		svc := newTestService(repo, &recordingNotifier{})

		u := verifiedUser(t, 5, "admin@example.com", "s3cret-pass")
		repo.On("GetByEmail", mock.Anything, "admin@example.com").Return(u, nil)

		result, err := svc.Login(t.Context(), "admin@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, "token-123", result.Token)
		assert.Equal(t, int64(3600), result.ExpiresIn)
		assert.Equal(t, uint(5), result.User.ID())
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		repo := &mockUserRepo{}
		svc := newTestService(repo, &recordingNotifier{})

		u := verifiedUser(t, 5, "admin@example.com", "s3cret-pass")
		repo.On("GetByEmail", mock.Anything, "admin@example.com").Return(u, nil)

		_, err := svc.Login(t.Context(), "admin@example.com", "wrong-pass")
		appErr := errors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrorTypeUnauthorized, appErr.Type)
	})

	t.Run("unknown email is unauthorized", func(t *testing.T) {
		repo := &mockUserRepo{}
		svc := newTestService(repo, &recordingNotifier{})

		repo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)

		_, err := svc.Login(t.Context(), "ghost@example.com", "whatever1")
		appErr := errors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrorTypeUnauthorized, appErr.Type)
	})

	t.Run("unverified account is forbidden", func(t *testing.T) {
		repo := &mockUserRepo{}
		svc := newTestService(repo, &recordingNotifier{})

		token := "tok"
		u, err := user.ReconstructUser(
			6, "pending@example.com", "Pending", "hashed:s3cret-pass", user.RoleUser,
			false, &token, nil,
			time.Now().UTC(), time.Now().UTC(),
		)
		require.NoError(t, err)
		repo.On("GetByEmail", mock.Anything, "pending@example.com").Return(u, nil)

		_, err = svc.Login(t.Context(), "pending@example.com", "s3cret-pass")
		appErr := errors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrorTypeForbidden, appErr.Type)
	})
}
