package services

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/service/catalog"
)

const (
	msgInvalidServiceID   = "некорректный ID услуги"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceInUse       = "услуга используется в записях, деактивируйте ее вместо удаления"
)

// Handler управление каталогом услуг в админке
type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/admin/services
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListAll(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/services - Failed to list services: %v", err)
		handlers.RespondInternalError(w)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, ListServicesResponse{Services: handlers.FromServices(list)})
}

// Create POST /api/v1/admin/services
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req ServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	svc, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		h.respondServiceError(w, "POST /admin/services", 0, err)
		return
	}

	h.logger.Info("POST /admin/services - Service created: service_id=%d", svc.ID)
	handlers.RespondJSON(w, http.StatusCreated, handlers.FromService(svc))
}

// Update PUT /api/v1/admin/services/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("PUT /admin/services/{id} - %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	var req ServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/services/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	svc, err := h.service.Update(r.Context(), id, req.toInput())
	if err != nil {
		h.respondServiceError(w, "PUT /admin/services/{id}", id, err)
		return
	}

	h.logger.Info("PUT /admin/services/{id} - Service updated: service_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromService(svc))
}

// Delete DELETE /api/v1/admin/services/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /admin/services/{id} - %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, "DELETE /admin/services/{id}", id, err)
		return
	}

	h.logger.Info("DELETE /admin/services/{id} - Service deleted: service_id=%d", id)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route string, id int64, err error) {
	switch {
	case errors.Is(err, catalog.ErrInvalidInput):
		h.logger.Warn("%s - Validation failed: %v", route, err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err, catalog.ErrInvalidInput))

	case errors.Is(err, catalog.ErrServiceNotFound):
		h.logger.Warn("%s - Service not found: service_id=%d", route, id)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, catalog.ErrServiceInUse):
		h.logger.Warn("%s - Service in use: service_id=%d", route, id)
		handlers.RespondConflict(w, msgServiceInUse)

	default:
		h.logger.Error("%s - Internal error: service_id=%d, error=%v", route, id, err)
		handlers.RespondInternalError(w)
	}
}
