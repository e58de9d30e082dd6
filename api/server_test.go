package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"newsfeed/monitor"
	"newsfeed/publisher"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMonitor struct {
	status   monitor.Status
	triggers int
}

func (f *fakeMonitor) Status() monitor.Status { return f.status }
func (f *fakeMonitor) Trigger()               { f.triggers++ }

func newTestRouter(t *testing.T) (*gin.Engine, string, *fakeMonitor) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	m := &fakeMonitor{status: monitor.Status{State: monitor.StateIdle, Feed: "news", Cycles: 4}}
	return NewRouter(dir, m), dir, m
}

func do(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestFeedNotYetGenerated(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/feeds/news")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"feed not yet generated"}`, w.Body.String())
}

func TestFeedServed(t *testing.T) {
	r, dir, _ := newTestRouter(t)
	body := []byte(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel></channel></rss>`)
	require.NoError(t, os.WriteFile(publisher.FeedPath(dir, "news"), body, 0o644))

	for _, path := range []string{"/feeds/news", "/feeds/news.xml"} {
		w := do(r, http.MethodGet, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, publisher.ContentType, w.Header().Get("Content-Type"), path)
		assert.Equal(t, body, w.Body.Bytes(), path)
	}
}

func TestFeedRejectsUnsafeNames(t *testing.T) {
	r, dir, _ := newTestRouter(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.xml"), []byte("x"), 0o644))

	w := do(r, http.MethodGet, "/feeds/..%2Fsecret")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestStatus(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/status")
	require.Equal(t, http.StatusOK, w.Code)

	var got monitor.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, monitor.StateIdle, got.State)
	assert.Equal(t, "news", got.Feed)
	assert.Equal(t, 4, got.Cycles)
}

func TestRefresh(t *testing.T) {
	r, _, m := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/refresh")

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"status":"refresh scheduled"}`, w.Body.String())
	assert.Equal(t, 1, m.triggers)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/refresh").Code)
}
