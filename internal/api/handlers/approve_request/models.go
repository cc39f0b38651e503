package approve_request

import (
	approveRequest "github.com/m04kA/SMC-SalonService/internal/usecase/approve_request"
)

// ApproveResponse HTTP response model
type ApproveResponse struct {
	RequestID       int64 `json:"requestId"`
	AppointmentID   int64 `json:"appointmentId"`
	CustomerID      int64 `json:"customerId"`
	CustomerCreated bool  `json:"customerCreated"`
	Overlaps        bool  `json:"overlaps"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *approveRequest.Response) *ApproveResponse {
	return &ApproveResponse{
		RequestID:       resp.RequestID,
		AppointmentID:   resp.AppointmentID,
		CustomerID:      resp.CustomerID,
		CustomerCreated: resp.CustomerCreated,
		Overlaps:        resp.Overlaps,
	}
}
