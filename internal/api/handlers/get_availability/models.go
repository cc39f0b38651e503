package get_availability

import (
	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	getAvailability "github.com/m04kA/SMC-SalonService/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date            string         `json:"date"`
	Busy            []BusyResponse `json:"busy"`
	ServiceID       *int64         `json:"serviceId,omitempty"`
	DurationMinutes int            `json:"durationMinutes,omitempty"`
	Slots           []string       `json:"slots"`
}

// BusyResponse занятый интервал
type BusyResponse struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Status string `json:"status"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		Busy:            make([]BusyResponse, 0, len(resp.Busy)),
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
	}
	for _, b := range resp.Busy {
		out.Busy = append(out.Busy, BusyResponse{
			Start:  handlers.FormatTime(b.Start),
			End:    handlers.FormatTime(b.End),
			Status: b.Status,
		})
	}
	if resp.Slots != nil {
		out.Slots = make([]string, 0, len(resp.Slots))
		for _, s := range resp.Slots {
			out.Slots = append(out.Slots, handlers.FormatTime(s))
		}
	}
	return out
}
