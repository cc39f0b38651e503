package get_agenda

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
)

const msgInvalidWeek = "некорректный параметр week, ожидается YYYY-MM-DD"

type Handler struct {
	service  AgendaService
	calendar handlers.WeekCalendar
	logger   Logger
	now      func() time.Time
}

func NewHandler(service AgendaService, calendar handlers.WeekCalendar, logger Logger) *Handler {
	return &Handler{
		service:  service,
		calendar: calendar,
		logger:   logger,
		now:      time.Now,
	}
}

// Handle GET /api/v1/admin/agenda?week=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	week, err := handlers.WeekParam(r, h.calendar, h.now())
	if err != nil {
		h.logger.Warn("GET /admin/agenda - Invalid week: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWeek)
		return
	}

	proj, err := h.service.Snapshot(r.Context(), week)
	if err != nil {
		h.logger.Error("GET /admin/agenda - Failed to build agenda: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromProjection(proj))
}
