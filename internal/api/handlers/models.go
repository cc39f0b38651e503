package handlers

import (
	"github.com/m04kA/SMC-SalonService/internal/agenda"
	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// AppointmentResponse запись в ответах админки
type AppointmentResponse struct {
	ID           int64   `json:"id"`
	CustomerID   *int64  `json:"customerId"`
	CustomerName string  `json:"customerName"`
	ServiceID    int64   `json:"serviceId"`
	ServiceName  string  `json:"serviceName"`
	Start        string  `json:"start"`
	End          string  `json:"end"`
	Status       string  `json:"status"`
	CreatedAt    *string `json:"createdAt,omitempty"`
}

// FromAppointment конвертирует доменную запись
func FromAppointment(a *domain.Appointment) AppointmentResponse {
	resp := AppointmentResponse{
		ID:           a.ID,
		CustomerID:   a.CustomerID,
		CustomerName: a.CustomerName(),
		ServiceID:    a.ServiceID,
		ServiceName:  a.ServiceName(),
		Start:        FormatTime(a.StartsAt),
		End:          FormatTime(a.EndsAt),
		Status:       string(a.Status),
	}
	if !a.CreatedAt.IsZero() {
		created := FormatTime(a.CreatedAt)
		resp.CreatedAt = &created
	}
	return resp
}

// ServiceResponse услуга. Цена в евро и в центах.
type ServiceResponse struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	PriceCents      int64   `json:"priceCents"`
	ImageURL        *string `json:"imageUrl,omitempty"`
	Active          bool    `json:"active"`
	Category        string  `json:"category"`
}

// FromService конвертирует доменную услугу
func FromService(s *domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           float64(s.PriceCents) / 100,
		PriceCents:      s.PriceCents,
		ImageURL:        s.ImageURL,
		Active:          s.Active,
		Category:        string(s.Category),
	}
}

// FromServices конвертирует список; пустой список сериализуется как []
func FromServices(list []*domain.Service) []ServiceResponse {
	out := make([]ServiceResponse, 0, len(list))
	for _, s := range list {
		out = append(out, FromService(s))
	}
	return out
}

// AgendaResponse недельная сетка
type AgendaResponse struct {
	WeekStart    string              `json:"weekStart"`
	Days         []string            `json:"days"`
	Rows         []AgendaRowResponse `json:"rows"`
	Appointments int                 `json:"appointments"`
	BuiltAt      string              `json:"builtAt"`
}

// AgendaRowResponse строка сетки
type AgendaRowResponse struct {
	Time  string               `json:"time"`
	Cells []AgendaCellResponse `json:"cells"`
}

// AgendaCellResponse ячейка сетки
type AgendaCellResponse struct {
	Start         string `json:"start"`
	State         string `json:"state"`
	AppointmentID int64  `json:"appointmentId,omitempty"`
	Status        string `json:"status,omitempty"`
	CustomerName  string `json:"customerName,omitempty"`
	ServiceName   string `json:"serviceName,omitempty"`
}

// FromProjection конвертирует сетку; даты дней в местном формате YYYY-MM-DD
func FromProjection(p *agenda.Projection) AgendaResponse {
	resp := AgendaResponse{
		WeekStart:    p.WeekStart.Format(domain.DateFormat),
		Days:         make([]string, 0, len(p.Days)),
		Rows:         make([]AgendaRowResponse, 0, len(p.Rows)),
		Appointments: p.Appointments,
		BuiltAt:      FormatTime(p.BuiltAt),
	}
	for _, d := range p.Days {
		resp.Days = append(resp.Days, d.Format(domain.DateFormat))
	}
	for _, row := range p.Rows {
		r := AgendaRowResponse{Time: row.Time.String(), Cells: make([]AgendaCellResponse, 0, len(row.Cells))}
		for _, c := range row.Cells {
			r.Cells = append(r.Cells, AgendaCellResponse{
				Start:         FormatTime(c.Start),
				State:         string(c.State),
				AppointmentID: c.AppointmentID,
				Status:        string(c.Status),
				CustomerName:  c.CustomerName,
				ServiceName:   c.ServiceName,
			})
		}
		resp.Rows = append(resp.Rows, r)
	}
	return resp
}
