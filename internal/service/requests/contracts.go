package requests

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/changefeed"
)

// RequestRepository интерфейс репозитория заявок
type RequestRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error)
	List(ctx context.Context, status *domain.RequestStatus) ([]*domain.BookingRequest, error)
	TransitionStatus(ctx context.Context, id int64, from, to domain.RequestStatus) error
}

// Notifier публикация изменений в канал
type Notifier interface {
	Notify(ctx context.Context, e changefeed.Event) error
}

// Metrics счетчики заявок
type Metrics interface {
	IncRequestsRejected()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
