package dashboard

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// RequestCounter подсчет заявок по статусу
type RequestCounter interface {
	Count(ctx context.Context, status domain.RequestStatus) (int, error)
}

// AppointmentCounter подсчет записей по фильтру
type AppointmentCounter interface {
	Count(ctx context.Context, filter domain.AppointmentFilter) (int, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальная реализация TimeProvider
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Error(format string, v ...interface{})
}
