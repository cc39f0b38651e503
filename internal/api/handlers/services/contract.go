package services

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/catalog"
)

type CatalogService interface {
	ListAll(ctx context.Context) ([]*domain.Service, error)
	Create(ctx context.Context, in catalog.Input) (*domain.Service, error)
	Update(ctx context.Context, id int64, in catalog.Input) (*domain.Service, error)
	Delete(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
