package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appsync "github.com/meetscribe/meetscribe/internal/application/sync"
	"github.com/meetscribe/meetscribe/internal/domain/meeting"
	"github.com/meetscribe/meetscribe/internal/domain/profile"
	"github.com/meetscribe/meetscribe/internal/infrastructure/database"
	"github.com/meetscribe/meetscribe/internal/infrastructure/persistence/models"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

const (
	testProfileID = "11111111-1111-1111-1111-111111111111"
	testMeetingID = "22222222-2222-2222-2222-222222222222"
	testSegmentID = "33333333-3333-3333-3333-333333333333"
	testMessageID = "44444444-4444-4444-4444-444444444444"
	testSummaryID = "55555555-5555-5555-5555-555555555555"
	otherID       = "66666666-6666-6666-6666-666666666666"
)

func setupSyncDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.ProfileModel{},
		&models.MeetingModel{},
		&models.TranscriptModel{},
		&models.ChatMessageModel{},
		&models.MeetingSummaryModel{},
	))

	return db
}

func newSyncSession(db *gorm.DB) appsync.WriterSession {
	log := logger.NewLogger()
	return NewSyncWriterSession(database.NewForeignKeyGuard(db, log), log)
}

func strPtr(s string) *string        { return &s }
func timePtr(t time.Time) *time.Time { return &t }

func upsertFixture(t *testing.T, session appsync.WriterSession) {
	t.Helper()
	created := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	err := session.WithWriter(t.Context(), func(w appsync.Writer) error {
		if err := w.UpsertProfile(t.Context(), profile.UpsertParams{
			ID:        testProfileID,
			Email:     "alice@example.com",
			FullName:  strPtr("Alice"),
			CreatedAt: timePtr(created),
		}); err != nil {
			return err
		}
		if err := w.UpsertMeeting(t.Context(), meeting.UpsertParams{
			ID:        testMeetingID,
			UserID:    testProfileID,
			Title:     strPtr("Planning"),
			Status:    strPtr("ended"),
			CreatedAt: timePtr(created),
		}); err != nil {
			return err
		}
		if err := w.UpsertTranscript(t.Context(), meeting.TranscriptUpsertParams{
			ID:        testSegmentID,
			MeetingID: testMeetingID,
			Speaker:   "Alice",
			Text:      "let's start",
			Timestamp: 1.5,
		}); err != nil {
			return err
		}
		if err := w.UpsertChatMessage(t.Context(), meeting.ChatMessageUpsertParams{
			ID:        testMessageID,
			MeetingID: testMeetingID,
			Role:      "user",
			Content:   "summarize this",
		}); err != nil {
			return err
		}
		return w.UpsertSummary(t.Context(), meeting.SummaryUpsertParams{
			ID:          testSummaryID,
			MeetingID:   testMeetingID,
			SummaryText: strPtr("short recap"),
			ActionItems: []meeting.ActionItem{{Text: "send notes"}},
		})
	})
	require.NoError(t, err)
}

func TestSyncWriter_UpsertIsIdempotent(t *testing.T) {
	db := setupSyncDB(t)
	session := newSyncSession(db)

	upsertFixture(t, session)
	upsertFixture(t, session)

	counts := map[string]int64{}
	for _, table := range []string{"profiles", "meetings", "transcripts", "chat_messages", "meeting_summaries"} {
		var n int64
		require.NoError(t, db.Table(table).Count(&n).Error)
		counts[table] = n
	}

	assert.Equal(t, int64(1), counts["profiles"])
	assert.Equal(t, int64(1), counts["meetings"])
	assert.Equal(t, int64(1), counts["transcripts"])
	assert.Equal(t, int64(1), counts["chat_messages"])
	assert.Equal(t, int64(1), counts["meeting_summaries"])
}

func TestSyncWriter_UpdatesChangedAttributes(t *testing.T) {
	db := setupSyncDB(t)
	session := newSyncSession(db)

	upsertFixture(t, session)

	err := session.WithWriter(t.Context(), func(w appsync.Writer) error {
		return w.UpsertMeeting(t.Context(), meeting.UpsertParams{
			ID:     testMeetingID,
			UserID: testProfileID,
			Title:  strPtr("Planning (renamed)"),
		})
	})
	require.NoError(t, err)

	var model models.MeetingModel
	require.NoError(t, db.Where("id = ?", testMeetingID).First(&model).Error)
	assert.Equal(t, "Planning (renamed)", model.Title)
	assert.Equal(t, "ended", model.Status, "absent fields stay untouched")
}

func TestSyncWriter_SummaryReplacedNotDuplicated(t *testing.T) {
	db := setupSyncDB(t)
	session := newSyncSession(db)

	upsertFixture(t, session)

	// A regenerated summary arrives with a new id for the same meeting.
	err := session.WithWriter(t.Context(), func(w appsync.Writer) error {
		return w.UpsertSummary(t.Context(), meeting.SummaryUpsertParams{
			ID:          otherID,
			MeetingID:   testMeetingID,
			SummaryText: strPtr("longer recap"),
		})
	})
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Table("meeting_summaries").Count(&n).Error)
	assert.Equal(t, int64(1), n)

	var model models.MeetingSummaryModel
	require.NoError(t, db.Where("meeting_id = ?", testMeetingID).First(&model).Error)
	assert.Equal(t, otherID, model.ID)
	assert.Equal(t, "longer recap", model.SummaryText)
}

func TestSyncWriter_TombstonedTranscriptNotResurrected(t *testing.T) {
	db := setupSyncDB(t)
	session := newSyncSession(db)
	log := logger.NewLogger()

	upsertFixture(t, session)

	transcripts := NewTranscriptRepository(db, log)
	require.NoError(t, transcripts.Delete(t.Context(), testSegmentID))

	upsertFixture(t, session)

	listed, err := transcripts.ListByMeeting(t.Context(), testMeetingID)
	require.NoError(t, err)
	assert.Empty(t, listed, "deleted transcript should stay hidden after a pass")

	var total int64
	require.NoError(t, db.Unscoped().Model(&models.TranscriptModel{}).Count(&total).Error)
	assert.Equal(t, int64(1), total, "no second row behind the tombstone")
}

func TestSyncWriter_ChildRowsAllowedBeforeParent(t *testing.T) {
	db := setupSyncDB(t)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	session := newSyncSession(db)

	// The pass writes a transcript whose meeting has not been mirrored yet.
	err := session.WithWriter(t.Context(), func(w appsync.Writer) error {
		return w.UpsertTranscript(t.Context(), meeting.TranscriptUpsertParams{
			ID:        testSegmentID,
			MeetingID: testMeetingID,
			Speaker:   "Bob",
			Text:      "hello",
			Timestamp: 0,
		})
	})
	require.NoError(t, err)
}

func TestSyncWriter_RejectsInvalidParams(t *testing.T) {
	db := setupSyncDB(t)
	session := newSyncSession(db)

	err := session.WithWriter(context.Background(), func(w appsync.Writer) error {
		return w.UpsertProfile(context.Background(), profile.UpsertParams{
			ID:    "not-a-uuid",
			Email: "x@example.com",
		})
	})
	require.Error(t, err)

	var n int64
	require.NoError(t, db.Table("profiles").Count(&n).Error)
	assert.Zero(t, n)
}
