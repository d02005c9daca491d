package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsync "github.com/meetscribe/meetscribe/internal/application/sync"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

type emptyRemote struct{}

func (emptyRemote) ListProfiles(ctx context.Context) ([]appsync.RemoteProfile, error) {
	return nil, nil
}

func (emptyRemote) ListMeetingsForUser(ctx context.Context, userID string) ([]appsync.RemoteMeeting, error) {
	return nil, nil
}

type directSession struct{}

func (directSession) WithWriter(ctx context.Context, fn func(w appsync.Writer) error) error {
	return fn(nil)
}

type blockingSession struct {
	entered chan struct{}
	release chan struct{}
}

func (s *blockingSession) WithWriter(ctx context.Context, fn func(w appsync.Writer) error) error {
	close(s.entered)
	<-s.release
	return fn(nil)
}

func newSyncRouter(engine *appsync.Engine) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSyncHandler(engine, logger.NewLogger())
	r := gin.New()
	r.GET("/sync/status", h.GetStatus)
	r.POST("/sync/run", h.Run)
	return r
}

func TestSyncHandler_Run(t *testing.T) {
	engine := appsync.NewEngine(emptyRemote{}, directSession{}, logger.NewLogger())
	router := newSyncRouter(engine)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sync/run", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	var report appsync.Report
	require.NoError(t, json.Unmarshal(resp.Data, &report))
	assert.Equal(t, appsync.StateCompleted, report.State)
}

func TestSyncHandler_RunWhilePassInFlightConflicts(t *testing.T) {
	session := &blockingSession{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	engine := appsync.NewEngine(emptyRemote{}, session, logger.NewLogger())
	router := newSyncRouter(engine)

	done := make(chan struct{})
	go func() {
		defer close(done)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sync/run", nil))
	}()
	<-session.entered

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sync/run", nil))
	assert.Equal(t, http.StatusConflict, w.Code)

	close(session.release)
	<-done
}

func TestSyncHandler_GetStatus(t *testing.T) {
	engine := appsync.NewEngine(emptyRemote{}, directSession{}, logger.NewLogger())
	router := newSyncRouter(engine)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sync/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Running bool            `json:"running"`
			Report  json.RawMessage `json:"report"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Running)

	var report appsync.Report
	require.NoError(t, json.Unmarshal(resp.Data.Report, &report))
	assert.Equal(t, appsync.StateIdle, report.State)
}
