package submit_request

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	submitRequest "github.com/m04kA/SMC-SalonService/internal/usecase/submit_request"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgServiceNotFound    = "услуга не найдена"
)

type Handler struct {
	useCase SubmitRequestUseCase
	logger  Logger
}

func NewHandler(useCase SubmitRequestUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/booking-requests
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequestRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking-requests - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, submitRequest.ErrInvalidInput):
			h.logger.Warn("POST /booking-requests - Validation failed: %v", err)
			handlers.RespondBadRequest(w, handlers.ValidationMessage(err, submitRequest.ErrInvalidInput))

		case errors.Is(err, submitRequest.ErrServiceNotFound):
			h.logger.Warn("POST /booking-requests - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		default:
			h.logger.Error("POST /booking-requests - Failed to submit request: service_id=%d, error=%v", req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /booking-requests - Request submitted: request_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, &SubmitRequestResponse{
		ID:              result.ID,
		Status:          result.Status,
		ConfirmationURL: result.ConfirmationURL,
	})
}
