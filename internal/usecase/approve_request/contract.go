package approve_request

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/changefeed"
)

// RequestRepository интерфейс репозитория заявок
type RequestRepository interface {
	// GetByID внутри транзакции блокирует строку (FOR UPDATE)
	GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error)
	TransitionStatus(ctx context.Context, id int64, from, to domain.RequestStatus) error
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*domain.Customer, error)
	Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	LockSchedule(ctx context.Context) error
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier публикация изменений в канал
type Notifier interface {
	Notify(ctx context.Context, e changefeed.Event) error
}

// Metrics доменные счетчики
type Metrics interface {
	IncRequestsApproved()
	IncApprovalOverlaps()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
