package list_requests

import (
	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// BookingRequestResponse заявка в списке админки
type BookingRequestResponse struct {
	ID          int64   `json:"id"`
	FullName    string  `json:"fullName"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	ServiceID   int64   `json:"serviceId"`
	ServiceName string  `json:"serviceName,omitempty"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
	Note        *string `json:"note"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
}

// ListRequestsResponse HTTP response model
type ListRequestsResponse struct {
	Requests []BookingRequestResponse `json:"requests"`
}

func fromRequests(list []*domain.BookingRequest) ListRequestsResponse {
	resp := ListRequestsResponse{Requests: make([]BookingRequestResponse, 0, len(list))}
	for _, r := range list {
		item := BookingRequestResponse{
			ID:        r.ID,
			FullName:  r.FullName,
			Phone:     r.Phone,
			Email:     r.Email,
			ServiceID: r.ServiceID,
			Start:     handlers.FormatTime(r.RequestedStart),
			End:       handlers.FormatTime(r.RequestedEnd),
			Note:      r.Note,
			Status:    string(r.Status),
			CreatedAt: handlers.FormatTime(r.CreatedAt),
		}
		if r.Service != nil {
			item.ServiceName = r.Service.Name
		}
		resp.Requests = append(resp.Requests, item)
	}
	return resp
}
