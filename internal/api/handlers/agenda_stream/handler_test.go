package agenda_stream

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/agenda"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/schedule"
)

type fakeView struct {
	updates chan agenda.Projection
	stopped chan struct{}
}

func (v *fakeView) Run(ctx context.Context) {
	<-ctx.Done()
	close(v.stopped)
}

func (v *fakeView) Updates() <-chan agenda.Projection { return v.updates }
func (v *fakeView) LastError() error                  { return nil }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandle_StreamsProjectionsUntilDisconnect(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	cal := schedule.MustCalendar(loc, schedule.DefaultHours(), domain.DefaultSlotStepMinutes)

	view := &fakeView{updates: make(chan agenda.Projection, 1), stopped: make(chan struct{})}
	var (
		mu   sync.Mutex
		week time.Time
	)
	h := NewHandler(func(w time.Time) LiveView {
		mu.Lock()
		week = w
		mu.Unlock()
		return view
	}, cal, nopLogger{}).WithHeartbeat(time.Hour)

	srv := httptest.NewServer(http.HandlerFunc(h.Handle))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"?week=2026-05-13", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	monday := time.Date(2026, 5, 11, 0, 0, 0, 0, loc)
	view.updates <- agenda.Projection{WeekStart: monday}

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: agenda\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "data: {"), line)
	assert.Contains(t, line, `"weekStart":"2026-05-11"`)

	mu.Lock()
	assert.True(t, week.Equal(time.Date(2026, 5, 13, 0, 0, 0, 0, loc)))
	mu.Unlock()

	cancel()
	select {
	case <-view.stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("view was not stopped after client disconnect")
	}
}

func TestHandle_InvalidWeek(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	cal := schedule.MustCalendar(loc, schedule.DefaultHours(), domain.DefaultSlotStepMinutes)

	h := NewHandler(func(time.Time) LiveView {
		t.Fatal("view must not be created")
		return nil
	}, cal, nopLogger{})

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/agenda/stream?week=13-05-2026", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
