package requests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/changefeed"
	requestRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/request"
)

type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingRequest), args.Error(1)
}

func (m *MockRequestRepository) List(ctx context.Context, status *domain.RequestStatus) ([]*domain.BookingRequest, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BookingRequest), args.Error(1)
}

func (m *MockRequestRepository) TransitionStatus(ctx context.Context, id int64, from, to domain.RequestStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}

type recordingNotifier struct {
	events []changefeed.Event
}

func (n *recordingNotifier) Notify(_ context.Context, e changefeed.Event) error {
	n.events = append(n.events, e)
	return nil
}

type countingMetrics struct {
	rejected int
}

func (m *countingMetrics) IncRequestsRejected() { m.rejected++ }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestReject_PendingRequest(t *testing.T) {
	repo := &MockRequestRepository{}
	notifier := &recordingNotifier{}
	metrics := &countingMetrics{}
	repo.On("TransitionStatus", mock.Anything, int64(10), domain.RequestPending, domain.RequestRejected).Return(nil)

	err := NewService(repo, notifier, metrics, nopLogger{}).Reject(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, 1, metrics.rejected)
	require.Len(t, notifier.events, 1)
	assert.Equal(t, "rejected", notifier.events[0].Status)
}

// Повторное отклонение: статус уже не pending, побочных эффектов нет
func TestReject_Twice(t *testing.T) {
	repo := &MockRequestRepository{}
	notifier := &recordingNotifier{}
	metrics := &countingMetrics{}
	repo.On("TransitionStatus", mock.Anything, int64(10), domain.RequestPending, domain.RequestRejected).
		Return(nil).Once()
	repo.On("TransitionStatus", mock.Anything, int64(10), domain.RequestPending, domain.RequestRejected).
		Return(requestRepo.ErrStatusMismatch)
	repo.On("GetByID", mock.Anything, int64(10)).
		Return(&domain.BookingRequest{ID: 10, Status: domain.RequestRejected}, nil)

	svc := NewService(repo, notifier, metrics, nopLogger{})
	require.NoError(t, svc.Reject(context.Background(), 10))

	err := svc.Reject(context.Background(), 10)
	assert.ErrorIs(t, err, ErrAlreadyHandled)
	assert.Equal(t, 1, metrics.rejected)
	assert.Len(t, notifier.events, 1)
}

func TestReject_NotFound(t *testing.T) {
	repo := &MockRequestRepository{}
	repo.On("TransitionStatus", mock.Anything, int64(99), mock.Anything, mock.Anything).Return(requestRepo.ErrStatusMismatch)
	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, requestRepo.ErrRequestNotFound)

	err := NewService(repo, &recordingNotifier{}, &countingMetrics{}, nopLogger{}).Reject(context.Background(), 99)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}
