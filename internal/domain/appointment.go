package domain

import "time"

// AppointmentStatus статус записи
type AppointmentStatus string

const (
	AppointmentBooked    AppointmentStatus = "booked"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentDone      AppointmentStatus = "done"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// ParseAppointmentStatus проверяет строковое значение статуса
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch st := AppointmentStatus(s); st {
	case AppointmentBooked, AppointmentConfirmed, AppointmentDone, AppointmentCancelled:
		return st, true
	default:
		return "", false
	}
}

// IsBlocking true, если запись занимает время в расписании
func (s AppointmentStatus) IsBlocking() bool {
	return s == AppointmentBooked || s == AppointmentConfirmed || s == AppointmentDone
}

// Appointment запись клиента на услугу. EndsAt не входит в интервал.
type Appointment struct {
	ID         int64
	CustomerID *int64
	ServiceID  int64
	StartsAt   time.Time
	EndsAt     time.Time
	Status     AppointmentStatus
	CreatedAt  time.Time

	// Связанные записи, заполняются при выборке с JOIN (могут отсутствовать)
	Customer *CustomerRef
	Service  *ServiceRef
}

// CustomerRef краткие данные клиента для отображения
type CustomerRef struct {
	ID       int64
	FullName string
}

// ServiceRef краткие данные услуги для отображения
type ServiceRef struct {
	ID   int64
	Name string
}

// CustomerName имя клиента или плейсхолдер, если клиент не найден
func (a *Appointment) CustomerName() string {
	if a.Customer == nil || a.Customer.FullName == "" {
		return PlaceholderCustomerLabel
	}
	return a.Customer.FullName
}

// ServiceName название услуги или пустая строка, если услуга не найдена
func (a *Appointment) ServiceName() string {
	if a.Service == nil {
		return PlaceholderServiceLabel
	}
	return a.Service.Name
}

// CanBeCancelled отменить можно любую неотменённую запись
func (a *Appointment) CanBeCancelled() bool {
	return a.Status != AppointmentCancelled
}

// CanTransitionTo допустимые ручные переходы статуса из админки
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	switch a.Status {
	case AppointmentBooked:
		return next == AppointmentConfirmed || next == AppointmentDone || next == AppointmentCancelled
	case AppointmentConfirmed:
		return next == AppointmentDone || next == AppointmentCancelled
	default:
		return false
	}
}

// AppointmentFilter фильтр выборки записей.
// From/To задают полуинтервал [From, To): выбираются записи, пересекающие его.
type AppointmentFilter struct {
	From       *time.Time
	To         *time.Time
	Statuses   []AppointmentStatus // пустой - все статусы
	CustomerID *int64
}
