package list_services

import (
	"net/http"
	"strings"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
)

const msgInvalidCategory = "неизвестная категория услуг"

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

// ListServicesResponse HTTP response model
type ListServicesResponse struct {
	Services []handlers.ServiceResponse `json:"services"`
}

// Handle GET /api/v1/services?category=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var category *domain.ServiceCategory
	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		c, ok := domain.ParseCategory(strings.ToLower(raw))
		if !ok {
			h.logger.Warn("GET /services - Invalid category: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidCategory)
			return
		}
		category = &c
	}

	services, err := h.service.ListActive(r.Context(), category)
	if err != nil {
		h.logger.Error("GET /services - Failed to list services: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ListServicesResponse{Services: handlers.FromServices(services)})
}
