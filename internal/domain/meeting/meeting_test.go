package meeting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ownerID = "0b1c73a2-4f6e-49f5-9d57-3c1f4a2b6e8d"

func TestNewMeeting(t *testing.T) {
	t.Run("creates scheduled meeting with generated id", func(t *testing.T) {
		m, err := NewMeeting(ownerID, "Weekly standup", StatusScheduled, nil)
		require.NoError(t, err)
		assert.NotEmpty(t, m.ID())
		assert.Equal(t, ownerID, m.UserID())
		assert.Equal(t, StatusScheduled, m.Status())
		assert.Nil(t, m.EndedAt())
	})

	t.Run("rejects malformed owner id", func(t *testing.T) {
		_, err := NewMeeting("not-a-uuid", "Standup", StatusScheduled, nil)
		assert.Error(t, err)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := NewMeeting(ownerID, "Standup", Status("archived"), nil)
		assert.Error(t, err)
	})
}

func TestMeeting_End(t *testing.T) {
	t.Run("records duration from start", func(t *testing.T) {
		start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		m, err := NewMeeting(ownerID, "Planning", StatusLive, &start)
		require.NoError(t, err)

		require.NoError(t, m.End(start.Add(45*time.Minute)))
		assert.Equal(t, StatusEnded, m.Status())
		require.NotNil(t, m.DurationSeconds())
		assert.Equal(t, 2700, *m.DurationSeconds())
	})

	t.Run("rejects end before start", func(t *testing.T) {
		start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		m, err := NewMeeting(ownerID, "Planning", StatusLive, &start)
		require.NoError(t, err)

		assert.Error(t, m.End(start.Add(-time.Minute)))
		assert.Equal(t, StatusLive, m.Status())
	})

	t.Run("ends without duration when start unknown", func(t *testing.T) {
		m, err := NewMeeting(ownerID, "Planning", StatusLive, nil)
		require.NoError(t, err)

		require.NoError(t, m.End(time.Now().UTC()))
		assert.Equal(t, StatusEnded, m.Status())
		assert.Nil(t, m.DurationSeconds())
	})
}

func TestUpsertParams_Validate(t *testing.T) {
	meetingID := "7c9e6679-7425-40de-944b-e07fc1f90ae7"

	valid := UpsertParams{ID: meetingID, UserID: ownerID}
	assert.NoError(t, valid.Validate())

	t.Run("rejects ended before started", func(t *testing.T) {
		start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		end := start.Add(-time.Hour)
		p := UpsertParams{ID: meetingID, UserID: ownerID, StartedAt: &start, EndedAt: &end}
		assert.Error(t, p.Validate())
	})

	t.Run("rejects negative duration", func(t *testing.T) {
		negative := -5
		p := UpsertParams{ID: meetingID, UserID: ownerID, DurationSeconds: &negative}
		assert.Error(t, p.Validate())
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		status := "archived"
		p := UpsertParams{ID: meetingID, UserID: ownerID, Status: &status}
		assert.Error(t, p.Validate())
	})
}
