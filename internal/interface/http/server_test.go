package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/campus-management-hub/pkg/logger"
)

type fakeQueueProbe struct {
	pingErr error
	depth   int64
}

func (f *fakeQueueProbe) Ping(ctx context.Context) error  { return f.pingErr }
func (f *fakeQueueProbe) Depth(ctx context.Context) int64 { return f.depth }

func newTestServer(probe QueueProbe) *Server {
	return NewServer(DefaultConfig(), Dependencies{
		Logger: logger.New(logger.Options{Output: io.Discard}),
		Queue:  probe,
	})
}

func doRequest(t *testing.T, s *Server, method, path string) (*httptest.ResponseRecorder, jsonResponse) {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	s.buildMiddlewareChain(s.router).ServeHTTP(rec, req)

	var body jsonResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec, body
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(&fakeQueueProbe{})

	rec, body := doRequest(t, s, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
}

func TestServer_Ready(t *testing.T) {
	s := newTestServer(&fakeQueueProbe{})

	rec, body := doRequest(t, s, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
}

func TestServer_Ready_QueueDown(t *testing.T) {
	s := newTestServer(&fakeQueueProbe{pingErr: errors.New("connection refused")})

	rec, body := doRequest(t, s, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "queue_unavailable", body.Error.Code)
}

func TestServer_QueueDepth(t *testing.T) {
	s := newTestServer(&fakeQueueProbe{depth: 42})

	rec, body := doRequest(t, s, http.MethodGet, "/queue/depth")
	assert.Equal(t, http.StatusOK, rec.Code)

	data, err := json.Marshal(body.Data)
	require.NoError(t, err)

	var depth depthResponse
	require.NoError(t, json.Unmarshal(data, &depth))
	assert.Equal(t, int64(42), depth.Depth)
}

func TestServer_MetricsRouteAbsentWithoutHandler(t *testing.T) {
	s := newTestServer(&fakeQueueProbe{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
