package customers

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	customersService "github.com/m04kA/SMC-SalonService/internal/service/customers"
)

type CustomerService interface {
	Create(ctx context.Context, in customersService.Input) (*domain.Customer, error)
	Get(ctx context.Context, id int64) (*domain.Customer, error)
	Search(ctx context.Context, q string, limit int) ([]*domain.Customer, error)
	Update(ctx context.Context, id int64, in customersService.Input) (*domain.Customer, error)
	Delete(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
