package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/studyshare/internal/client/config"
	"github.com/dmitrijs2005/studyshare/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestBootstrap_SessionExpiry(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"accessToken": "opaque-token",
			"user":        map[string]any{"id": "u1", "email": "ann@example.com"},
		}})
	})
	mux.HandleFunc("POST /api/notifications/fcm-token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"message": "registered"}})
	})
	mux.HandleFunc("GET /api/users/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Token expired", "statusCode": 401})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	tmp := t.TempDir()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBaseURL = srv.URL + "/api"
	cfg.DBPath = filepath.Join(tmp, "client.db")
	cfg.DownloadDir = filepath.Join(tmp, "downloads")
	cfg.RequestTimeout = 5 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	app, closeFn, err := Bootstrap(ctx, cfg, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	stubPasswords(t, "secret123")
	var out bytes.Buffer
	app.out = &out
	app.reader = rdr("login\nann@example.com\nme\nexit\n")

	app.Run(ctx)

	got := out.String()
	assert.Contains(t, got, "Signed in as ann@example.com")
	assert.Contains(t, got, "Your session has expired. Please log in again.")
	assert.Contains(t, got, "Error: Token expired")
	assert.Contains(t, got, "studyshare (guest)> Bye!")
	assert.False(t, app.isLoggedIn(ctx))
	assert.DirExists(t, cfg.DownloadDir)
}

func TestBootstrap_BadBaseURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBaseURL = "ftp://example.com"
	cfg.DBPath = filepath.Join(t.TempDir(), "client.db")
	cfg.DownloadDir = t.TempDir()

	_, _, err := Bootstrap(context.Background(), cfg, logging.Nop())
	require.Error(t, err)
}
