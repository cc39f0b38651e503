package catalog

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/changefeed"
)

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) (*domain.Service, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	List(ctx context.Context, filter domain.ServiceFilter) ([]*domain.Service, error)
	Update(ctx context.Context, s *domain.Service) error
	Delete(ctx context.Context, id int64) error
}

// Cache кэш публичного списка услуг. Может отсутствовать (redis.enabled = false).
type Cache interface {
	GetActive(ctx context.Context, category *domain.ServiceCategory) ([]*domain.Service, bool, error)
	SetActive(ctx context.Context, category *domain.ServiceCategory, services []*domain.Service) error
	Invalidate(ctx context.Context) error
}

// Notifier публикация изменений в канал
type Notifier interface {
	Notify(ctx context.Context, e changefeed.Event) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
