package agenda

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/changefeed"
)

// AppointmentRepository выборка записей недели
type AppointmentRepository interface {
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
}

// Subscriber подписка на канал изменений
type Subscriber interface {
	Subscribe() (<-chan changefeed.Event, func())
}

// Metrics счетчики пересчетов и активных представлений
type Metrics interface {
	IncAgendaRecompute(ok bool)
	AddAgendaViews(delta int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
