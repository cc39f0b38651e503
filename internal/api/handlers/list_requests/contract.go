package list_requests

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

type RequestService interface {
	List(ctx context.Context, status *domain.RequestStatus) ([]*domain.BookingRequest, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
