package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser("ops@example.com", "Ops", "hash", RoleAdmin, time.Hour)
	require.NoError(t, err)
	assert.False(t, u.EmailVerified())
	require.NotNil(t, u.VerificationToken())
	assert.Len(t, *u.VerificationToken(), 64)
	require.NotNil(t, u.VerificationExpiresAt())

	_, err = NewUser("", "Ops", "hash", RoleAdmin, time.Hour)
	assert.Error(t, err)

	_, err = NewUser("ops@example.com", "Ops", "hash", Role("superuser"), time.Hour)
	assert.Error(t, err)
}

func TestUser_VerifyEmail(t *testing.T) {
	t.Run("consumes matching token", func(t *testing.T) {
		u, err := NewUser("ops@example.com", "Ops", "hash", RoleUser, time.Hour)
		require.NoError(t, err)

		token := *u.VerificationToken()
		require.NoError(t, u.VerifyEmail(token))
		assert.True(t, u.EmailVerified())
		assert.Nil(t, u.VerificationToken())

		// A second attempt fails, the token is gone.
		assert.Error(t, u.VerifyEmail(token))
	})

	t.Run("rejects wrong token", func(t *testing.T) {
		u, err := NewUser("ops@example.com", "Ops", "hash", RoleUser, time.Hour)
		require.NoError(t, err)

		assert.Error(t, u.VerifyEmail("not-the-token"))
		assert.False(t, u.EmailVerified())
	})

	t.Run("rejects expired token", func(t *testing.T) {
		u, err := NewUser("ops@example.com", "Ops", "hash", RoleUser, -time.Minute)
		require.NoError(t, err)

		assert.Error(t, u.VerifyEmail(*u.VerificationToken()))
	})
}
