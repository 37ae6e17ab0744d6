package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kidsbilling/adjustments/internal/config"
	"github.com/kidsbilling/adjustments/pkg/adjustment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (http.Handler, config.Application) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Application{
		Storage: config.Storage{
			Backend:         config.StorageBackendCsv,
			DataFile:        filepath.Join(dir, "data.csv"),
			DirectoryFile:   filepath.Join(dir, "center_students.csv"),
			CredentialsFile: filepath.Join(dir, "center_admins.csv"),
		},
		Session: config.Session{CookieName: "adjustments_session", TTL: time.Hour},
	}
	require.NoError(t, os.WriteFile(cfg.Storage.CredentialsFile, []byte("Username,Password,Center Name\nacorn,secret,Acorn\nboss,topsecret,ALL\n"), 0o644))
	require.NoError(t, os.WriteFile(cfg.Storage.DirectoryFile, []byte("Center,Child,Child Status,Family Status,Billing Cycle\nAcorn,Ada,Active,Returning,Weekly\n"), 0o644))

	deps, err := BuildDependencies(nil, cfg)
	require.NoError(t, err)
	return NewRouter(deps), cfg
}

func postForm(target string, form url.Values, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func login(t *testing.T, router http.Handler, username, password string) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, postForm("/login", url.Values{"user_id": {username}, "password": {password}}, nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func TestRouter_AddAndExport(t *testing.T) {
	router, cfg := setupRouter(t)
	cookie := login(t, router, "acorn", "secret")

	// add a row
	w := httptest.NewRecorder()
	router.ServeHTTP(w, postForm("/api/data", url.Values{
		adjustment.FormSaveAdd:            {"1"},
		adjustment.ColumnChildName:        {"Ada"},
		adjustment.ColumnAdjustmentAmount: {"12"},
	}, cookie))
	require.Equal(t, http.StatusOK, w.Code)

	var view adjustment.ViewDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
	assert.Equal(t, adjustment.MessageAdded, view.Message)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "Acorn", view.Rows[0].CenterName)
	assert.Equal(t, "Weekly", view.Rows[0].BillingCycle)

	content, err := os.ReadFile(cfg.Storage.DataFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Acorn,Ada,12")

	// export it
	req := httptest.NewRequest(http.MethodGet, "/download_excel", nil)
	req.AddCookie(cookie)
	req.Header.Set("Accept", "text/csv")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Acorn,Ada,12")
}

func TestRouter_RequiresSession(t *testing.T) {
	router, _ := setupRouter(t)

	for _, target := range []string{"/api/data", "/data", "/download_excel", "/api/export", "/api/session"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, target)
	}
}

func TestRouter_EmptyExport(t *testing.T) {
	router, _ := setupRouter(t)
	cookie := login(t, router, "boss", "topsecret")

	req := httptest.NewRequest(http.MethodGet, "/download_excel", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBuildDependencies_Backends(t *testing.T) {
	_, err := BuildDependencies(nil, config.Application{Storage: config.Storage{Backend: config.StorageBackendPostgres}})
	assert.Error(t, err)

	_, err = BuildDependencies(nil, config.Application{Storage: config.Storage{Backend: "s3"}})
	assert.Error(t, err)
}
