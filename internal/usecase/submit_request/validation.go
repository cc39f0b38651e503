package submit_request

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/schedule"
	"github.com/m04kA/SMC-SalonService/pkg/validate"
)

// normalize обрезает пробелы; пустые необязательные поля становятся nil
func normalize(req *Request) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Phone = trimmedOrNil(req.Phone)
	req.Email = trimmedOrNil(req.Email)
	req.Note = trimmedOrNil(req.Note)
}

// validateRequest валидирует заявку и возвращает запрошенный интервал в UTC
func validateRequest(req *Request, cal *schedule.Calendar) (time.Time, time.Time, error) {
	if err := validate.Struct(req); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	start, err := cal.ParseInstant(req.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start", ErrInvalidInput)
	}
	end, err := cal.ParseInstant(req.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end", ErrInvalidInput)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end must be after start", ErrInvalidInput)
	}
	return start, end, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
