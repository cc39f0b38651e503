package domain

import "time"

// RequestStatus статус заявки на запись
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// ParseRequestStatus проверяет строковое значение статуса заявки
func ParseRequestStatus(s string) (RequestStatus, bool) {
	switch st := RequestStatus(s); st {
	case RequestPending, RequestApproved, RequestRejected:
		return st, true
	default:
		return "", false
	}
}

// BookingRequest заявка с публичного сайта, ожидающая решения администратора.
// После выхода из pending заявка не меняется.
type BookingRequest struct {
	ID             int64
	FullName       string
	Phone          *string
	Email          *string
	ServiceID      int64
	RequestedStart time.Time
	RequestedEnd   time.Time
	Note           *string
	Status         RequestStatus
	CreatedAt      time.Time

	Service *ServiceRef
}

func (r *BookingRequest) IsPending() bool {
	return r.Status == RequestPending
}
