package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insidehealthgt/hms/userctx"
)

func TestGetIPAddress(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		remote   string
		expected string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:5000", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.2:5000", "198.51.100.4"},
		{"remote addr", nil, "192.0.2.1:43210", "192.0.2.1"},
		{"ipv6 remote addr", nil, "[2001:db8::1]:443", "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, getIPAddress(r))
		})
	}
}

func TestAuditContext(t *testing.T) {
	var seen userctx.RequestInfo
	handler := AuditContext(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ok bool
		seen, ok = userctx.GetRequestInfo(r.Context())
		require.True(t, ok)
	}))

	r := httptest.NewRequest(http.MethodPost, "/api/rooms", nil)
	r.RemoteAddr = "192.0.2.1:1234"
	r.Header.Set("User-Agent", "ward-terminal/1.0")
	handler.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "192.0.2.1", seen.IPAddress)
	assert.Equal(t, "ward-terminal/1.0", seen.UserAgent)

	// the context of a later request starts empty
	_, ok := userctx.GetRequestInfo(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}

func TestRequestLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	handler := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
	assert.Equal(t, "/health", entry.Data["path"])
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole("ADMIN")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		ctx    func(r *http.Request) *http.Request
		status int
	}{
		{"no actor", func(r *http.Request) *http.Request { return r }, http.StatusForbidden},
		{"missing role", func(r *http.Request) *http.Request {
			return r.WithContext(userctx.WithActor(r.Context(), userctx.Actor{ID: 2, Roles: []string{"NURSE"}}))
		}, http.StatusForbidden},
		{"admin", func(r *http.Request) *http.Request {
			return r.WithContext(userctx.WithActor(r.Context(), userctx.Actor{ID: 1, Roles: []string{"DOCTOR", "ADMIN"}}))
		}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, tt.ctx(httptest.NewRequest(http.MethodGet, "/api/audit-logs", nil)))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
