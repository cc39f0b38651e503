package create_appointment

import (
	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	createAppointment "github.com/m04kA/SMC-SalonService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	CustomerID int64  `json:"customerId"`
	ServiceID  int64  `json:"serviceId"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID         int64  `json:"id"`
	CustomerID int64  `json:"customerId"`
	ServiceID  int64  `json:"serviceId"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() *createAppointment.Request {
	return &createAppointment.Request{
		CustomerID: r.CustomerID,
		ServiceID:  r.ServiceID,
		Start:      r.Start,
		End:        r.End,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:         resp.ID,
		CustomerID: resp.CustomerID,
		ServiceID:  resp.ServiceID,
		Start:      handlers.FormatTime(resp.StartsAt),
		End:        handlers.FormatTime(resp.EndsAt),
		Status:     resp.Status,
		CreatedAt:  handlers.FormatTime(resp.CreatedAt),
	}
}
