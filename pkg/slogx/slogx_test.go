package slogx_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/edunexia/edunexia-api/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{
		Service: "edunexia-api",
		Version: "test",
		Env:     "test",
		Level:   "warn",
		Format:  "json",
		Output:  &buf,
	})

	logger.Info("dropped")
	logger.Warn("kept", "k", "v")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "kept", entry["msg"])
	require.Equal(t, "edunexia-api", entry["service"])
	require.Equal(t, "v", entry["k"])
}

func TestFromContextDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Equal(t, slog.Default(), slogx.FromContext(req.Context()))
}

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	h := slogx.HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slogx.FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("propagates caller request id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(slogx.RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusTeapot, rec.Code)
		require.Equal(t, "abc-123", rec.Header().Get(slogx.RequestIDHeader))
		require.Contains(t, buf.String(), `"req_id":"abc-123"`)
		require.Contains(t, buf.String(), `"status":418`)
		require.Contains(t, buf.String(), `"msg":"inside"`)
	})

	t.Run("generates request id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		require.Len(t, rec.Header().Get(slogx.RequestIDHeader), 26)
	})

	t.Run("replaces oversized request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(slogx.RequestIDHeader, strings.Repeat("a", 500))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Len(t, rec.Header().Get(slogx.RequestIDHeader), 26)
	})
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := slogx.WithContext(httptest.NewRequest(http.MethodGet, "/", nil).Context(), base)
	ctx = slogx.With(ctx, "account_id", int64(7))
	slogx.FromContext(ctx).Info("hello")

	require.Contains(t, buf.String(), `"account_id":7`)
}
