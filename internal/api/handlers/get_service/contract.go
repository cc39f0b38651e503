package get_service

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

type CatalogService interface {
	GetActive(ctx context.Context, id int64) (*domain.Service, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
