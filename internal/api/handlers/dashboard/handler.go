package dashboard

import (
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
)

type Handler struct {
	service DashboardService
	logger  Logger
}

func NewHandler(service DashboardService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// SummaryResponse HTTP response model
type SummaryResponse struct {
	PendingRequests   int `json:"pendingRequests"`
	TodayAppointments int `json:"todayAppointments"`
}

// Handle GET /api/v1/admin/dashboard
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/dashboard - Failed to build summary: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, SummaryResponse{
		PendingRequests:   summary.PendingRequests,
		TodayAppointments: summary.TodayAppointments,
	})
}
