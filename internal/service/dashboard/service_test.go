package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/schedule"
)

type MockRequestCounter struct{ mock.Mock }

func (m *MockRequestCounter) Count(ctx context.Context, status domain.RequestStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

type MockAppointmentCounter struct{ mock.Mock }

func (m *MockAppointmentCounter) Count(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Error(string, ...interface{}) {}

func TestSummary_CountsTodayInBusinessTimezone(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	cal := schedule.MustCalendar(rome, schedule.DefaultHours(), 30)

	// 23:30 UTC 10 мая = 01:30 11 мая в Риме
	now := time.Date(2026, 5, 10, 23, 30, 0, 0, time.UTC)
	wantFrom := time.Date(2026, 5, 11, 0, 0, 0, 0, rome)
	wantTo := time.Date(2026, 5, 12, 0, 0, 0, 0, rome)

	requests := &MockRequestCounter{}
	requests.On("Count", mock.Anything, domain.RequestPending).Return(3, nil)

	appointments := &MockAppointmentCounter{}
	appointments.On("Count", mock.Anything, mock.MatchedBy(func(f domain.AppointmentFilter) bool {
		return f.From.Equal(wantFrom) && f.To.Equal(wantTo) &&
			assert.ObjectsAreEqual(domain.TodayCountedStatuses, f.Statuses)
	})).Return(5, nil)

	svc := NewService(requests, appointments, cal, fixedTime{now}, nopLogger{})
	summary, err := svc.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &Summary{PendingRequests: 3, TodayAppointments: 5}, summary)
}
