package list_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments"
)

const msgInvalidFilter = "некорректные параметры фильтра"

type Handler struct {
	service  AppointmentService
	calendar Calendar
	logger   Logger
}

func NewHandler(service AppointmentService, calendar Calendar, logger Logger) *Handler {
	return &Handler{
		service:  service,
		calendar: calendar,
		logger:   logger,
	}
}

// Handle GET /api/v1/admin/appointments?from=&to=&status=booked,confirmed&customerId=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query(), h.calendar)
	if err != nil {
		h.logger.Warn("GET /admin/appointments - Invalid filter: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter+": "+err.Error())
		return
	}

	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /admin/appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, handlers.ValidationMessage(err, appointments.ErrInvalidInput))
		default:
			h.logger.Error("GET /admin/appointments - Failed to list appointments: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	resp := ListAppointmentsResponse{
		Appointments: make([]handlers.AppointmentResponse, 0, len(list)),
		Total:        len(list),
	}
	for _, a := range list {
		resp.Appointments = append(resp.Appointments, handlers.FromAppointment(a))
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}
