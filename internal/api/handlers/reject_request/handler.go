package reject_request

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/requests"
)

const (
	msgInvalidRequestID = "некорректный ID заявки"
	msgRequestNotFound  = "заявка не найдена"
	msgAlreadyHandled   = "already handled"
)

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

// RejectResponse HTTP response model
type RejectResponse struct {
	RequestID int64  `json:"requestId"`
	Status    string `json:"status"`
}

// Handle POST /api/v1/admin/requests/{id}/reject
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("POST /admin/requests/{id}/reject - %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	if err := h.service.Reject(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, requests.ErrRequestNotFound):
			h.logger.Warn("POST /admin/requests/{id}/reject - Request not found: request_id=%d", id)
			handlers.RespondNotFound(w, msgRequestNotFound)

		case errors.Is(err, requests.ErrAlreadyHandled):
			h.logger.Warn("POST /admin/requests/{id}/reject - Already handled: request_id=%d", id)
			handlers.RespondConflict(w, msgAlreadyHandled)

		default:
			h.logger.Error("POST /admin/requests/{id}/reject - Failed to reject request: request_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/requests/{id}/reject - Request rejected: request_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, RejectResponse{RequestID: id, Status: string(domain.RequestRejected)})
}
