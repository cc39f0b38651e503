package agenda

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/changefeed"
	"github.com/m04kA/SMC-SalonService/internal/schedule"
)

type fakeRepo struct {
	mu      sync.Mutex
	calls   int32
	appts   []*domain.Appointment
	err     error
	block   bool
	filters []domain.AppointmentFilter
	aborted chan error
}

func (r *fakeRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	atomic.AddInt32(&r.calls, 1)
	r.mu.Lock()
	r.filters = append(r.filters, filter)
	appts, err, block := r.appts, r.err, r.block
	r.mu.Unlock()

	if block {
		<-ctx.Done()
		if r.aborted != nil {
			r.aborted <- ctx.Err()
		}
		return nil, ctx.Err()
	}
	return appts, err
}

func (r *fakeRepo) Calls() int { return int(atomic.LoadInt32(&r.calls)) }

func (r *fakeRepo) set(appts []*domain.Appointment, err error) {
	r.mu.Lock()
	r.appts, r.err = appts, err
	r.mu.Unlock()
}

type fakeMetrics struct {
	ok, failed, views int32
}

func (m *fakeMetrics) IncAgendaRecompute(ok bool) {
	if ok {
		atomic.AddInt32(&m.ok, 1)
	} else {
		atomic.AddInt32(&m.failed, 1)
	}
}

func (m *fakeMetrics) AddAgendaViews(delta int) { atomic.AddInt32(&m.views, int32(delta)) }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(t *testing.T, repo *fakeRepo, refresh time.Duration) (*Service, *changefeed.Broker, *fakeMetrics) {
	t.Helper()
	cal := romeCalendar(t, schedule.DefaultHours())
	broker := changefeed.NewBroker(nopLogger{})
	metrics := &fakeMetrics{}
	svc := NewService(repo, NewBuilder(cal), broker, metrics, nopLogger{}, Options{
		RefreshInterval: refresh,
		FetchTimeout:    time.Second,
	})
	return svc, broker, metrics
}

func TestRelevant(t *testing.T) {
	cases := []struct {
		event changefeed.Event
		want  bool
	}{
		{changefeed.Event{Table: domain.TableAppointments, Op: changefeed.OpInsert}, true},
		{changefeed.Event{Table: domain.TableAppointments, Op: changefeed.OpDelete}, true},
		{changefeed.Event{Table: domain.TableBookingRequests, Op: changefeed.OpUpdate, Status: "approved"}, true},
		{changefeed.Event{Table: domain.TableBookingRequests, Op: changefeed.OpUpdate, Status: "rejected"}, false},
		{changefeed.Event{Table: domain.TableBookingRequests, Op: changefeed.OpInsert, Status: "pending"}, false},
		{changefeed.Event{Table: domain.TableCustomers, Op: changefeed.OpUpdate}, false},
		{changefeed.Event{Op: changefeed.OpResync}, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Relevant(c.event), "%+v", c.event)
	}
}

func TestSnapshot_FetchesWholeWeekOfBlockingAppointments(t *testing.T) {
	repo := &fakeRepo{}
	svc, _, _ := newTestService(t, repo, time.Hour)

	proj, err := svc.Snapshot(context.Background(), time.Date(2026, 5, 14, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, repo.filters, 1)
	f := repo.filters[0]
	assert.True(t, f.From.Equal(proj.WeekStart))
	assert.True(t, f.To.Equal(proj.WeekStart.AddDate(0, 0, 7)))
	assert.Equal(t, domain.BlockingStatuses, f.Statuses)
}

func TestView_InitialLoadAndEvents(t *testing.T) {
	repo := &fakeRepo{}
	svc, broker, metrics := newTestService(t, repo, time.Hour)
	view := svc.NewView(time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		view.Run(ctx)
		close(done)
	}()

	first := <-view.Updates()
	assert.Equal(t, 0, first.Appointments)
	require.Eventually(t, func() bool { return broker.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	rome := svc.builder.calendar.Location()
	repo.set([]*domain.Appointment{{
		ID:       1,
		StartsAt: time.Date(2026, 5, 12, 10, 0, 0, 0, rome),
		EndsAt:   time.Date(2026, 5, 12, 10, 30, 0, 0, rome),
		Status:   domain.AppointmentBooked,
	}}, nil)
	broker.Publish(changefeed.Event{Table: domain.TableAppointments, Op: changefeed.OpInsert, ID: 1})

	select {
	case p := <-view.Updates():
		assert.Equal(t, 1, p.Appointments)
	case <-time.After(2 * time.Second):
		t.Fatal("no update after appointment event")
	}

	current, err := view.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 1, current.Appointments)
	assert.Equal(t, int32(1), atomic.LoadInt32(&metrics.views))

	cancel()
	<-done
	assert.Equal(t, 0, broker.Subscribers())
	assert.Equal(t, int32(0), atomic.LoadInt32(&metrics.views))
}

func TestView_TickerRefreshAndErrorRetained(t *testing.T) {
	repo := &fakeRepo{}
	repo.set(nil, errors.New("connection reset"))
	svc, _, metrics := newTestService(t, repo, 20*time.Millisecond)
	view := svc.NewView(time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go view.Run(ctx)

	// Ошибки не останавливают цикл: таймер продолжает пересчеты
	require.Eventually(t, func() bool { return repo.Calls() >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.Error(t, view.LastError())
	assert.GreaterOrEqual(t, atomic.LoadInt32(&metrics.failed), int32(2))

	repo.set(nil, nil)
	require.Eventually(t, func() bool { return view.LastError() == nil }, 2*time.Second, 5*time.Millisecond)
	current, _ := view.Snapshot()
	require.NotNil(t, current)
}

func TestView_CancelAbortsInFlightFetch(t *testing.T) {
	repo := &fakeRepo{block: true, aborted: make(chan error, 1)}
	svc, broker, _ := newTestService(t, repo, time.Hour)
	view := svc.NewView(time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		view.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return repo.Calls() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-repo.aborted:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("fetch was not cancelled")
	}
	<-done
	assert.Equal(t, 0, broker.Subscribers())
	assert.NoError(t, view.LastError())
}
