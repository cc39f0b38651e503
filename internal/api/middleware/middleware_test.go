package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testLogger struct {
	lines []string
}

func (l *testLogger) Info(format string, v ...interface{})  { l.lines = append(l.lines, fmt.Sprintf(format, v...)) }
func (l *testLogger) Warn(format string, v ...interface{})  { l.lines = append(l.lines, fmt.Sprintf(format, v...)) }
func (l *testLogger) Error(format string, v ...interface{}) { l.lines = append(l.lines, fmt.Sprintf(format, v...)) }

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusTeapot)
	_, _ = w.Write([]byte("ok"))
})

func TestStaffAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	h := StaffAuth(string(hash), &testLogger{})(okHandler)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic czNjcmV0", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusForbidden},
		{"valid token", "Bearer s3cret", http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}

func TestAccessLog(t *testing.T) {
	logger := &testLogger{}
	h := RequestID(AccessLog(logger)(okHandler))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/booking-requests", nil))

	require.Len(t, logger.lines, 1)
	assert.Contains(t, logger.lines[0], "POST /api/v1/booking-requests - 418 2B")
	assert.Contains(t, logger.lines[0], "request_id="+rec.Header().Get(HeaderRequestID))
}

func TestStatusRecorderFlushesThroughController(t *testing.T) {
	rec := httptest.NewRecorder()
	w := newStatusRecorder(rec)

	require.NoError(t, http.NewResponseController(w).Flush())
	assert.True(t, rec.Flushed)
}

type observed struct {
	method, route, status string
}

type fakeHTTPMetrics struct {
	calls []observed
}

func (m *fakeHTTPMetrics) ObserveHTTP(method, route, status string, _ time.Duration) {
	m.calls = append(m.calls, observed{method, route, status})
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	m := &fakeHTTPMetrics{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.Handle("/api/v1/admin/requests/{id}/approve", okHandler).Methods(http.MethodPost)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/requests/42/approve", nil))

	require.Len(t, m.calls, 1)
	assert.Equal(t, observed{http.MethodPost, "/api/v1/admin/requests/{id}/approve", "418"}, m.calls[0])
}
