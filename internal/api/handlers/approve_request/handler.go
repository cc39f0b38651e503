package approve_request

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	approveRequest "github.com/m04kA/SMC-SalonService/internal/usecase/approve_request"
)

const (
	msgInvalidRequestID = "некорректный ID заявки"
	msgRequestNotFound  = "заявка не найдена"
	msgAlreadyHandled   = "already handled"
	msgConflict         = "интервал заявки пересекается с другой записью"
)

type Handler struct {
	useCase ApproveRequestUseCase
	logger  Logger
}

func NewHandler(useCase ApproveRequestUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/requests/{id}/approve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("POST /admin/requests/{id}/approve - %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &approveRequest.Request{RequestID: id})
	if err != nil {
		switch {
		case errors.Is(err, approveRequest.ErrInvalidInput):
			h.logger.Warn("POST /admin/requests/{id}/approve - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestID)

		case errors.Is(err, approveRequest.ErrRequestNotFound):
			h.logger.Warn("POST /admin/requests/{id}/approve - Request not found: request_id=%d", id)
			handlers.RespondNotFound(w, msgRequestNotFound)

		case errors.Is(err, approveRequest.ErrAlreadyHandled):
			h.logger.Warn("POST /admin/requests/{id}/approve - Already handled: request_id=%d", id)
			handlers.RespondConflict(w, msgAlreadyHandled)

		case errors.Is(err, approveRequest.ErrConflict):
			h.logger.Warn("POST /admin/requests/{id}/approve - Conflict: request_id=%d", id)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /admin/requests/{id}/approve - Failed to approve request: request_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if result.Overlaps {
		h.logger.Warn("POST /admin/requests/{id}/approve - Approved with overlap: request_id=%d, appointment_id=%d", id, result.AppointmentID)
	}
	h.logger.Info("POST /admin/requests/{id}/approve - Request approved: request_id=%d, appointment_id=%d", id, result.AppointmentID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
