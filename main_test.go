package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insidehealthgt/hms/config"
	"github.com/insidehealthgt/hms/database"
	"github.com/insidehealthgt/hms/repositories"
)

func testConfig() config.Config {
	return config.Config{
		LogLevel:        "debug",
		SessionLifetime: time.Hour,
		AuditAsync:      true,
		AuditPageSize:   50,
	}
}

func newTestApp(t *testing.T, cfg config.Config) *app {
	t.Helper()
	log, _ := test.NewNullLogger()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "hms.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	a, err := build(context.Background(), cfg, db, log)
	require.NoError(t, err)
	t.Cleanup(a.tm.Wait)
	return a
}

func serve(a *app, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	a := newTestApp(t, testConfig())

	rec := serve(a, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "healthy", "service": "hms"}`, rec.Body.String())
}

func TestAnonymousAPIIsAuditedWithoutActor(t *testing.T) {
	a := newTestApp(t, testConfig())

	rec := serve(a, http.MethodPost, "/api/rooms", `{"number":"12","type":"PRIVATE","gender":"MALE","capacity":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	a.tm.Wait()

	rec = serve(a, http.MethodGet, "/api/audit-logs?entityType=Room", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page repositories.AuditPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.Items[0].ActorID)
	assert.Nil(t, page.Items[0].ActorName)

	rec = serve(a, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hms_audit_intents_emitted_total{action="CREATE"} 1`)
	assert.Contains(t, rec.Body.String(), "hms_audit_records_written_total 1")
}

func TestNewLogger(t *testing.T) {
	log := newLogger(config.Config{LogLevel: "warn", LogFormat: "json"})
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log = newLogger(config.Config{LogLevel: "loud"})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}
