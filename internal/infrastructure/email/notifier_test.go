package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meetscribe/meetscribe/internal/domain/setting"
	"github.com/meetscribe/meetscribe/internal/shared/constants"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
	"github.com/meetscribe/meetscribe/internal/shared/services/markdown"
)

type mockSettings struct {
	mock.Mock
}

func (m *mockSettings) Create(ctx context.Context, s *setting.EmailSetting) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSettings) GetByKey(ctx context.Context, key string) (*setting.EmailSetting, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*setting.EmailSetting), args.Error(1)
}

func (m *mockSettings) GetByID(ctx context.Context, id uint) (*setting.EmailSetting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*setting.EmailSetting), args.Error(1)
}

func (m *mockSettings) List(ctx context.Context) ([]*setting.EmailSetting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*setting.EmailSetting), args.Error(1)
}

func (m *mockSettings) Update(ctx context.Context, s *setting.EmailSetting) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSettings) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type captureSender struct {
	to, subject, htmlBody, plainBody string
	sent                             bool
	err                              error
}

func (c *captureSender) Send(to, subject, htmlBody, plainBody string) error {
	if c.err != nil {
		return c.err
	}
	c.to, c.subject, c.htmlBody, c.plainBody = to, subject, htmlBody, plainBody
	c.sent = true
	return nil
}

func newNotifier(settings *mockSettings, sender Sender) *Notifier {
	return NewNotifier(settings, sender, markdown.NewService(), logger.NewLogger())
}

func TestNotifier_UsesStoredTemplate(t *testing.T) {
	row, err := setting.NewEmailSetting(constants.EmailKeyWelcome, "Hello {{.Name}}", "You made it, **{{.Name}}**.")
	require.NoError(t, err)

	settings := new(mockSettings)
	settings.On("GetByKey", mock.Anything, constants.EmailKeyWelcome).Return(row, nil)

	sender := &captureSender{}
	newNotifier(settings, sender).SendWelcome(t.Context(), "alice@example.com", "Alice")

	require.True(t, sender.sent)
	assert.Equal(t, "alice@example.com", sender.to)
	assert.Equal(t, "Hello Alice", sender.subject)
	assert.Contains(t, sender.plainBody, "You made it, **Alice**.")
	assert.Contains(t, sender.htmlBody, "<strong>Alice</strong>")
}

func TestNotifier_FallsBackWhenRowMissing(t *testing.T) {
	settings := new(mockSettings)
	settings.On("GetByKey", mock.Anything, constants.EmailKeyWelcome).Return(nil, nil)

	sender := &captureSender{}
	newNotifier(settings, sender).SendWelcome(t.Context(), "bob@example.com", "Bob")

	require.True(t, sender.sent)
	assert.Equal(t, "Welcome aboard", sender.subject)
	assert.Contains(t, sender.plainBody, "Hi Bob")
}

func TestNotifier_FallsBackWhenRowInactive(t *testing.T) {
	row, err := setting.NewEmailSetting(constants.EmailKeyWelcome, "Custom", "custom body")
	require.NoError(t, err)
	row.Deactivate()

	settings := new(mockSettings)
	settings.On("GetByKey", mock.Anything, constants.EmailKeyWelcome).Return(row, nil)

	sender := &captureSender{}
	newNotifier(settings, sender).SendWelcome(t.Context(), "bob@example.com", "Bob")

	require.True(t, sender.sent)
	assert.Equal(t, "Welcome aboard", sender.subject)
}

func TestNotifier_DeliveryFailureIsSwallowed(t *testing.T) {
	settings := new(mockSettings)
	settings.On("GetByKey", mock.Anything, mock.Anything).Return(nil, nil)

	sender := &captureSender{err: assert.AnError}
	// Must not panic or propagate the error.
	newNotifier(settings, sender).SendSubscriptionConfirmation(t.Context(), "c@example.com", "Cara", "Pro")
}
