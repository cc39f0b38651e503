package agenda_stream

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/agenda"
)

// LiveView живое представление одной недели
type LiveView interface {
	Run(ctx context.Context)
	Updates() <-chan agenda.Projection
	LastError() error
}

// ViewFactory создает представление недели, в которую попадает week
type ViewFactory func(week time.Time) LiveView

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
