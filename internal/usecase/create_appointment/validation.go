package create_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/schedule"
	"github.com/m04kA/SMC-SalonService/pkg/validate"
)

// validateRequest валидирует запрос и возвращает интервал записи в UTC
func validateRequest(req *Request, cal *schedule.Calendar) (time.Time, time.Time, error) {
	if err := validate.Struct(req); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	start, err := cal.ParseInstant(req.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start: %v", ErrInvalidInput, err)
	}
	end, err := cal.ParseInstant(req.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end: %v", ErrInvalidInput, err)
	}

	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end must be after start", ErrInvalidInput)
	}
	return start, end, nil
}
