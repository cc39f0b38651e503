package approve_request

// Request модель запроса на одобрение заявки
type Request struct {
	RequestID int64
}

// Response результат одобрения
type Response struct {
	RequestID       int64
	AppointmentID   int64
	CustomerID      int64
	CustomerCreated bool // клиент создан из данных заявки
	Overlaps        bool // интервал пересекается с другими записями (нестрогий режим)
}
