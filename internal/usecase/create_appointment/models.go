package create_appointment

import "time"

// Request модель запроса на создание записи из админки.
// Start/End: RFC3339 или datetime-local в часовом поясе салона.
type Request struct {
	CustomerID int64  `validate:"gt=0" field:"customerId"`
	ServiceID  int64  `validate:"gt=0" field:"serviceId"`
	Start      string `validate:"required"`
	End        string `validate:"required"`
}

// Response модель ответа с созданной записью
type Response struct {
	ID         int64
	CustomerID int64
	ServiceID  int64
	StartsAt   time.Time
	EndsAt     time.Time
	Status     string
	CreatedAt  time.Time
}
