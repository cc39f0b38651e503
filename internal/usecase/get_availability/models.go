package get_availability

import "time"

// Request модель запроса занятости на день
type Request struct {
	Date      string // YYYY-MM-DD, местная дата салона
	ServiceID *int64 // если задан, дополнительно считаются свободные начала
}

// Response модель ответа
type Response struct {
	Date            time.Time   // местная полночь запрошенной даты
	Busy            []Busy      // активные записи, пересекающие день, по возрастанию начала
	ServiceID       *int64      // услуга, для которой рассчитаны слоты
	DurationMinutes int         // длительность услуги
	Slots           []time.Time // свободные начала; nil без ServiceID
}

// Busy занятый интервал
type Busy struct {
	Start  time.Time
	End    time.Time
	Status string
}
