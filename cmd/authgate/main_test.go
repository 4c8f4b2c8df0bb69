package main

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authgate/internal/auth"
	"authgate/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("welcome"), 0o644))
	return &config.Config{
		BasicAuthUser:   "alice",
		BasicAuthPass:   "secret",
		Port:            "0",
		StaticDir:       dir,
		ShutdownTimeout: time.Second,
	}
}

func TestGatedStaticSite(t *testing.T) {
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	h, err := newHandler(testConfig(t))
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	defer srv.Close()

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid credentials", "Basic YWxpY2U6c2VjcmV0", http.StatusOK, "welcome"},
		{"wrong password", "Basic YWxpY2U6d3Jvbmc=", http.StatusUnauthorized, "Authentication required"},
		{"no header", "", http.StatusUnauthorized, "Authentication required"},
		{"malformed base64", "Basic !!!notbase64!!!", http.StatusUnauthorized, "Authentication required"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
			require.NoError(t, err)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.body, string(body))
			if tc.status == http.StatusUnauthorized {
				assert.Equal(t, "Basic", resp.Header.Get("WWW-Authenticate"))
			}
		})
	}
}

func TestGatedProxy(t *testing.T) {
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	var hits atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		io.WriteString(w, "app")
	}))
	defer backend.Close()

	cfg := testConfig(t)
	cfg.UpstreamURL = backend.URL
	h, err := newHandler(cfg)
	require.NoError(t, err)

	denied := httptest.NewRecorder()
	h.ServeHTTP(denied, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, denied.Code)
	assert.Equal(t, int32(0), hits.Load())

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.SetBasicAuth("alice", "secret")
	allowed := httptest.NewRecorder()
	h.ServeHTTP(allowed, req)
	assert.Equal(t, http.StatusOK, allowed.Code)
	assert.Equal(t, "app", allowed.Body.String())
	assert.Equal(t, int32(1), hits.Load())
}

func TestNewHandlerRejectsEmptyCredentials(t *testing.T) {
	cfg := testConfig(t)
	cfg.BasicAuthPass = ""
	_, err := newHandler(cfg)
	assert.ErrorIs(t, err, auth.ErrEmptyCredentials)
}
