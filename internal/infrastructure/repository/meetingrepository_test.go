package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetscribe/meetscribe/internal/domain/meeting"
	"github.com/meetscribe/meetscribe/internal/infrastructure/persistence/models"
	"github.com/meetscribe/meetscribe/internal/shared/errors"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

func TestMeetingRepository_CRUD(t *testing.T) {
	db := setupSyncDB(t)
	repo := NewMeetingRepository(db, logger.NewLogger())

	started := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	m, err := meeting.NewMeeting(testProfileID, "Standup", meeting.StatusLive, &started)
	require.NoError(t, err)
	require.NoError(t, repo.Create(t.Context(), m))

	t.Run("get by id", func(t *testing.T) {
		found, err := repo.GetByID(t.Context(), m.ID())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Standup", found.Title())
		assert.Equal(t, meeting.StatusLive, found.Status())
	})

	t.Run("missing id returns nil", func(t *testing.T) {
		found, err := repo.GetByID(t.Context(), otherID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("update persists lifecycle change", func(t *testing.T) {
		require.NoError(t, m.End(started.Add(30*time.Minute)))
		require.NoError(t, repo.Update(t.Context(), m))

		found, err := repo.GetByID(t.Context(), m.ID())
		require.NoError(t, err)
		assert.Equal(t, meeting.StatusEnded, found.Status())
		require.NotNil(t, found.DurationSeconds())
		assert.Equal(t, 1800, *found.DurationSeconds())
	})

	t.Run("list filters by status", func(t *testing.T) {
		listed, total, err := repo.List(t.Context(), meeting.Filter{Status: "ended"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, listed, 1)
		assert.Equal(t, m.ID(), listed[0].ID())

		_, total, err = repo.List(t.Context(), meeting.Filter{Status: "live"})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		require.NoError(t, repo.Delete(t.Context(), m.ID()))

		var n int64
		require.NoError(t, db.Model(&models.MeetingModel{}).Count(&n).Error)
		assert.Zero(t, n)

		err := repo.Delete(t.Context(), m.ID())
		assert.True(t, errors.IsNotFoundError(err))
	})
}
