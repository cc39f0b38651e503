package dashboard

import (
	"context"

	dashboardService "github.com/m04kA/SMC-SalonService/internal/service/dashboard"
)

type DashboardService interface {
	Summary(ctx context.Context) (*dashboardService.Summary, error)
}

type Logger interface {
	Error(format string, v ...interface{})
}
