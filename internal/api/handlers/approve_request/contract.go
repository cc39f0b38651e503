package approve_request

import (
	"context"

	approveRequest "github.com/m04kA/SMC-SalonService/internal/usecase/approve_request"
)

type ApproveRequestUseCase interface {
	Execute(ctx context.Context, req *approveRequest.Request) (*approveRequest.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
