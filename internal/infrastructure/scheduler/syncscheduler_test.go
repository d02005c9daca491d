package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsync "github.com/meetscribe/meetscribe/internal/application/sync"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

type countingRemote struct {
	calls atomic.Int32
}

func (r *countingRemote) ListProfiles(ctx context.Context) ([]appsync.RemoteProfile, error) {
	r.calls.Add(1)
	return nil, nil
}

func (r *countingRemote) ListMeetingsForUser(ctx context.Context, userID string) ([]appsync.RemoteMeeting, error) {
	return nil, nil
}

type noopSession struct{}

func (noopSession) WithWriter(ctx context.Context, fn func(w appsync.Writer) error) error {
	return fn(nil)
}

func TestSyncScheduler_RunsImmediatelyAndOnTicks(t *testing.T) {
	remote := &countingRemote{}
	engine := appsync.NewEngine(remote, noopSession{}, logger.NewLogger())
	sched := NewSyncScheduler(engine, 20*time.Millisecond, logger.NewLogger())

	sched.Start(context.Background())
	defer sched.Stop()

	require.Eventually(t, func() bool {
		return remote.calls.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond, "expected the immediate pass plus at least one tick")
}

func TestSyncScheduler_StopIsIdempotentAndHalts(t *testing.T) {
	remote := &countingRemote{}
	engine := appsync.NewEngine(remote, noopSession{}, logger.NewLogger())
	sched := NewSyncScheduler(engine, 10*time.Millisecond, logger.NewLogger())

	sched.Start(context.Background())
	require.Eventually(t, func() bool {
		return remote.calls.Load() >= 1
	}, 2*time.Second, 5*time.Millisecond)

	sched.Stop()
	sched.Stop()

	after := remote.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, remote.calls.Load(), "no passes after Stop")
}
