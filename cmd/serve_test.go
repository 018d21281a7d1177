package main

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpine-leisure/spawatch/internal/config"
	"github.com/alpine-leisure/spawatch/internal/history"
	"github.com/alpine-leisure/spawatch/internal/model"
	"github.com/alpine-leisure/spawatch/internal/store"
)

type stubRunStore struct {
	store.Store
	runs []model.RunRecord
	err  error
}

func (s *stubRunStore) ListRuns(_ context.Context, _ store.RunFilter) ([]model.RunRecord, error) {
	return s.runs, s.err
}

func testServeConfig(t *testing.T) {
	t.Helper()
	prev := cfg
	cfg = &config.Config{}
	cfg.Schedule.StaleHours = 5
	t.Cleanup(func() { cfg = prev })
}

func TestHealthHandler_Fresh(t *testing.T) {
	testServeConfig(t)
	hist := history.NewFile(t.TempDir())
	require.NoError(t, hist.Record(model.RunRecord{
		ID:        "run-1",
		Timestamp: time.Now(),
		Status:    model.RunStatusSuccess,
	}))

	rec := httptest.NewRecorder()
	healthHandler(hist)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthHandler_Stale(t *testing.T) {
	testServeConfig(t)
	hist := history.NewFile(t.TempDir())
	require.NoError(t, hist.Record(model.RunRecord{
		ID:        "run-1",
		Timestamp: time.Now().Add(-6 * time.Hour),
		Status:    model.RunStatusSuccess,
	}))

	rec := httptest.NewRecorder()
	healthHandler(hist)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"stale"}`, rec.Body.String())
}

func TestHealthHandler_NoRuns(t *testing.T) {
	testServeConfig(t)
	hist := history.NewFile(t.TempDir())

	rec := httptest.NewRecorder()
	healthHandler(hist)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRunsHandler(t *testing.T) {
	st := &stubRunStore{runs: []model.RunRecord{
		{ID: "run-1", Status: model.RunStatusSuccess, Slots: 28},
	}}

	rec := httptest.NewRecorder()
	runsHandler(st)(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []model.RunRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "run-1", got[0].ID)
}

func TestLastRunHandler(t *testing.T) {
	hist := history.NewFile(t.TempDir())

	// No runs yet.
	rec := httptest.NewRecorder()
	lastRunHandler(hist)(rec, httptest.NewRequest(http.MethodGet, "/runs/last", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, hist.Record(model.RunRecord{ID: "run-9", Status: model.RunStatusSuccess}))

	rec = httptest.NewRecorder()
	lastRunHandler(hist)(rec, httptest.NewRequest(http.MethodGet, "/runs/last", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.RunRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "run-9", got.ID)
}

func TestShutdownServer_DrainsInFlightRequests(t *testing.T) {
	started := make(chan struct{})
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(started)
		time.Sleep(150 * time.Millisecond)
		_, _ = w.Write([]byte("done"))
	})}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go srv.Serve(ln) //nolint:errcheck

	type result struct {
		code int
		body string
		err  error
	}
	results := make(chan result, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err != nil {
			results <- result{err: err}
			return
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		results <- result{code: resp.StatusCode, body: string(body)}
	}()

	// Shutdown begins mid-request; the in-flight response must still
	// complete rather than being cut off.
	<-started
	require.NoError(t, shutdownServer(srv))

	select {
	case res := <-results:
		require.NoError(t, res.err)
		assert.Equal(t, http.StatusOK, res.code)
		assert.Equal(t, "done", res.body)
	case <-time.After(2 * time.Second):
		t.Fatal("request did not complete")
	}
}
