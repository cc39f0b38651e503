package list_appointments

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// ListAppointmentsResponse HTTP response model
type ListAppointmentsResponse struct {
	Appointments []handlers.AppointmentResponse `json:"appointments"`
	Total        int                            `json:"total"`
}

// parseFilter собирает фильтр из query-параметров from, to, status, customerId.
// Дата без времени в to означает конец этого дня.
func parseFilter(q map[string][]string, cal Calendar) (domain.AppointmentFilter, error) {
	var filter domain.AppointmentFilter
	get := func(k string) string {
		if v := q[k]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	if raw := get("from"); raw != "" {
		from, err := parseBound(raw, cal, false)
		if err != nil {
			return filter, fmt.Errorf("invalid from: %w", err)
		}
		filter.From = &from
	}
	if raw := get("to"); raw != "" {
		to, err := parseBound(raw, cal, true)
		if err != nil {
			return filter, fmt.Errorf("invalid to: %w", err)
		}
		filter.To = &to
	}

	if raw := get("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			st, ok := domain.ParseAppointmentStatus(strings.TrimSpace(part))
			if !ok {
				return filter, fmt.Errorf("invalid status %q", part)
			}
			filter.Statuses = append(filter.Statuses, st)
		}
	}

	if raw := get("customerId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filter, fmt.Errorf("invalid customerId %q", raw)
		}
		filter.CustomerID = &id
	}
	return filter, nil
}

func parseBound(raw string, cal Calendar, endOfDay bool) (time.Time, error) {
	if len(raw) == len(domain.DateFormat) {
		day, err := cal.ParseDate(raw)
		if err != nil {
			return time.Time{}, err
		}
		if endOfDay {
			day = day.AddDate(0, 0, 1)
		}
		return day.UTC(), nil
	}
	return cal.ParseInstant(raw)
}
