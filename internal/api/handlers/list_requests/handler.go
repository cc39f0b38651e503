package list_requests

import (
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
)

const msgInvalidStatus = "недопустимый статус заявки"

type Handler struct {
	service RequestService
	logger  Logger
}

func NewHandler(service RequestService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/requests?status=pending
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var status *domain.RequestStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, ok := domain.ParseRequestStatus(raw)
		if !ok {
			h.logger.Warn("GET /admin/requests - Invalid status: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		status = &st
	}

	list, err := h.service.List(r.Context(), status)
	if err != nil {
		h.logger.Error("GET /admin/requests - Failed to list requests: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, fromRequests(list))
}
