package submit_request

import (
	submitRequest "github.com/m04kA/SMC-SalonService/internal/usecase/submit_request"
)

// SubmitRequestRequest HTTP request model
type SubmitRequestRequest struct {
	FullName  string  `json:"fullName"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	ServiceID int64   `json:"serviceId"`
	Start     string  `json:"start"` // RFC3339 или "2026-05-12T10:00" (местное время)
	End       string  `json:"end"`
	Note      *string `json:"note,omitempty"`
}

// SubmitRequestResponse HTTP response model
type SubmitRequestResponse struct {
	ID              int64  `json:"id"`
	Status          string `json:"status"`
	ConfirmationURL string `json:"confirmationUrl,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SubmitRequestRequest) ToUseCaseRequest() *submitRequest.Request {
	return &submitRequest.Request{
		FullName:  r.FullName,
		Phone:     r.Phone,
		Email:     r.Email,
		ServiceID: r.ServiceID,
		Start:     r.Start,
		End:       r.End,
		Note:      r.Note,
	}
}
