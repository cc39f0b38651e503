package get_agenda

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/agenda"
)

type AgendaService interface {
	Snapshot(ctx context.Context, week time.Time) (*agenda.Projection, error)
}

type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
