package domain

import "time"

// Значения по умолчанию
const (
	DefaultSlotStepMinutes = 30
	DefaultTimezone        = "Europe/Rome"
	DefaultCustomerName    = "Cliente"

	// Метки ячеек агенды, когда связанная запись отсутствует
	PlaceholderCustomerLabel = "Occupato"
	PlaceholderServiceLabel  = ""
)

// Ограничения валидации
const (
	MaxNameLength        = 200
	MaxNoteLength        = 1000
	MaxDescriptionLength = 4000
	MaxDurationMins      = 8 * 60
)

// Форматы времени
const (
	TimeFormat      = "15:04"            // HH:MM
	DateFormat      = "2006-01-02"       // YYYY-MM-DD
	LocalDateTime   = "2006-01-02T15:04" // значение datetime-local из формы
	TimestampFormat = time.RFC3339
)

// Таблицы, изменения которых публикуются в канал изменений
const (
	TableAppointments    = "appointments"
	TableBookingRequests = "booking_requests"
	TableCustomers       = "customers"
	TableServices        = "services"
)

// BlockingStatuses статусы записей, занимающие время в расписании
var BlockingStatuses = []AppointmentStatus{
	AppointmentBooked,
	AppointmentConfirmed,
	AppointmentDone,
}

// TodayCountedStatuses статусы, которые считаются в сводке "записи на сегодня"
var TodayCountedStatuses = []AppointmentStatus{
	AppointmentBooked,
	AppointmentConfirmed,
}
