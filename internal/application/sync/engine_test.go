package sync_test

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
	"github.com/meetscribe/meetscribe/internal/infrastructure/database"
	"github.com/meetscribe/meetscribe/internal/infrastructure/persistence/models"
	"github.com/meetscribe/meetscribe/internal/infrastructure/repository"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

const (
	aliceID    = "11111111-1111-1111-1111-111111111111"
	bobID      = "22222222-2222-2222-2222-222222222222"
	meetingID  = "33333333-3333-3333-3333-333333333333"
	summaryID  = "99999999-9999-9999-9999-999999999999"
	segmentID1 = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	segmentID2 = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	segmentID3 = "cccccccc-cccc-cccc-cccc-cccccccccccc"
	messageID1 = "dddddddd-dddd-dddd-dddd-dddddddddddd"
	messageID2 = "eeeeeeee-eeee-eeee-eeee-eeeeeeeeeeee"
)

type fakeRemote struct {
	profiles        []appsync.RemoteProfile
	profilesErr     error
	meetingsByUser  map[string][]appsync.RemoteMeeting
	meetingsErrFor  map[string]error
	meetingRequests []string
}

func (f *fakeRemote) ListProfiles(ctx context.Context) ([]appsync.RemoteProfile, error) {
	if f.profilesErr != nil {
		return nil, f.profilesErr
	}
	return f.profiles, nil
}

func (f *fakeRemote) ListMeetingsForUser(ctx context.Context, userID string) ([]appsync.RemoteMeeting, error) {
	f.meetingRequests = append(f.meetingRequests, userID)
	if err, ok := f.meetingsErrFor[userID]; ok {
		return nil, err
	}
	return f.meetingsByUser[userID], nil
}

type blockingSession struct {
	entered chan struct{}
	release chan struct{}
}

func (s *blockingSession) WithWriter(ctx context.Context, fn func(w appsync.Writer) error) error {
	close(s.entered)
	<-s.release
	return nil
}

func setupEngineDB(t *testing.T) *gorm.DB {
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

func newEngine(db *gorm.DB, remote appsync.RemoteClient) *appsync.Engine {
	log := logger.NewLogger()
	session := repository.NewSyncWriterSession(database.NewForeignKeyGuard(db, log), log)
	return appsync.NewEngine(remote, session, log)
}

func strPtr(s string) *string { return &s }

func remoteFixture() *fakeRemote {
	created := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	return &fakeRemote{
		profiles: []appsync.RemoteProfile{
			{ID: aliceID, Email: "alice@example.com", FullName: strPtr("Alice"), CreatedAt: &created},
			{ID: bobID, Email: "bob@example.com", CreatedAt: &created},
		},
		meetingsByUser: map[string][]appsync.RemoteMeeting{
			aliceID: {
				{
					ID:     meetingID,
					UserID: aliceID,
					Title:  strPtr("Weekly planning"),
					Status: strPtr("ended"),
					Transcripts: []appsync.RemoteTranscript{
						{ID: segmentID1, MeetingID: meetingID, Speaker: "Alice", Text: "intro", Timestamp: "0"},
						{ID: segmentID2, MeetingID: meetingID, Speaker: "Bob", Text: "agenda", Timestamp: "12.5"},
						{ID: segmentID3, MeetingID: meetingID, Speaker: "Alice", Text: "wrap up", Timestamp: "not-a-number"},
					},
					ChatMessages: []appsync.RemoteChatMessage{
						{ID: messageID1, MeetingID: meetingID, Role: "user", Content: "summarize"},
						{ID: messageID2, MeetingID: meetingID, Role: "assistant", Content: "done"},
					},
					Summaries: []appsync.RemoteSummary{
						{ID: summaryID, MeetingID: meetingID, SummaryText: strPtr("recap"), ActionItems: []byte(`[{"text":"ship it","completed":false}]`)},
					},
				},
			},
		},
	}
}

func TestEngine_FullPass(t *testing.T) {
	db := setupEngineDB(t)
	engine := newEngine(db, remoteFixture())

	report, err := engine.TryRun(t.Context())
	require.NoError(t, err)

	assert.Equal(t, appsync.StateCompleted, report.State)
	assert.Equal(t, 2, report.Counters.Profiles)
	assert.Equal(t, 1, report.Counters.Meetings)
	assert.Equal(t, 3, report.Counters.Transcripts)
	assert.Equal(t, 2, report.Counters.ChatMessages)
	assert.Equal(t, 1, report.Counters.Summaries)
	assert.Empty(t, report.Skipped)
	require.NotNil(t, report.StartedAt)
	require.NotNil(t, report.FinishedAt)

	// Unparseable timestamp defaults to zero instead of skipping the unit.
	var segment models.TranscriptModel
	require.NoError(t, db.Where("id = ?", segmentID3).First(&segment).Error)
	assert.Zero(t, segment.Timestamp)

	assert.Equal(t, report, engine.Report())
}

func TestEngine_SecondPassIsIdempotent(t *testing.T) {
	db := setupEngineDB(t)
	engine := newEngine(db, remoteFixture())

	first, err := engine.TryRun(t.Context())
	require.NoError(t, err)

	second, err := engine.TryRun(t.Context())
	require.NoError(t, err)
	assert.Equal(t, first.Counters, second.Counters)

	for table, want := range map[string]int64{
		"profiles":          2,
		"meetings":          1,
		"transcripts":       3,
		"chat_messages":     2,
		"meeting_summaries": 1,
	} {
		var n int64
		require.NoError(t, db.Table(table).Count(&n).Error)
		assert.Equal(t, want, n, "table %s", table)
	}
}

func TestEngine_ProfileListFailureIsFatal(t *testing.T) {
	db := setupEngineDB(t)
	engine := newEngine(db, &fakeRemote{profilesErr: assert.AnError})

	report, err := engine.TryRun(t.Context())
	require.Error(t, err)
	assert.Equal(t, appsync.StateFailed, report.State)
	assert.NotEmpty(t, report.Error)
}

func TestEngine_FailingProfileDoesNotAbortPass(t *testing.T) {
	db := setupEngineDB(t)
	remote := remoteFixture()
	// Bob's composite fetch fails; Alice must still sync fully.
	remote.meetingsErrFor = map[string]error{bobID: assert.AnError}
	engine := newEngine(db, remote)

	report, err := engine.TryRun(t.Context())
	require.NoError(t, err)

	assert.Equal(t, appsync.StateCompleted, report.State)
	assert.Equal(t, 2, report.Counters.Profiles)
	assert.Equal(t, 1, report.Counters.Meetings)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "profile_meetings", report.Skipped[0].Kind)
	assert.Equal(t, bobID, report.Skipped[0].ID)
}

func TestEngine_InvalidUnitIsSkippedNotFatal(t *testing.T) {
	db := setupEngineDB(t)
	remote := remoteFixture()
	meetings := remote.meetingsByUser[aliceID]
	meetings[0].ChatMessages[0].ID = "not-a-uuid"
	remote.meetingsByUser[aliceID] = meetings
	engine := newEngine(db, remote)

	report, err := engine.TryRun(t.Context())
	require.NoError(t, err)

	assert.Equal(t, appsync.StateCompleted, report.State)
	assert.Equal(t, 1, report.Counters.ChatMessages)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "chat_message", report.Skipped[0].Kind)

	var n int64
	require.NoError(t, db.Table("chat_messages").Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestEngine_MultipleSummariesTakesFirst(t *testing.T) {
	db := setupEngineDB(t)
	remote := remoteFixture()
	meetings := remote.meetingsByUser[aliceID]
	meetings[0].Summaries = append(meetings[0].Summaries, appsync.RemoteSummary{
		ID:          segmentID1,
		MeetingID:   meetingID,
		SummaryText: strPtr("second summary"),
	})
	remote.meetingsByUser[aliceID] = meetings
	engine := newEngine(db, remote)

	report, err := engine.TryRun(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Counters.Summaries)

	var model models.MeetingSummaryModel
	require.NoError(t, db.Where("meeting_id = ?", meetingID).First(&model).Error)
	assert.Equal(t, summaryID, model.ID)
	assert.Equal(t, "recap", model.SummaryText)
}

func TestEngine_OverlappingRunsRejected(t *testing.T) {
	session := &blockingSession{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	engine := appsync.NewEngine(&fakeRemote{profiles: []appsync.RemoteProfile{}}, session, logger.NewLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = engine.TryRun(context.Background())
	}()

	<-session.entered
	assert.True(t, engine.Running())

	_, err := engine.TryRun(context.Background())
	assert.ErrorIs(t, err, appsync.ErrPassInProgress)

	close(session.release)
	<-done
	assert.False(t, engine.Running())
}
