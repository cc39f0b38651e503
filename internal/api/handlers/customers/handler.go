package customers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	customersService "github.com/m04kA/SMC-SalonService/internal/service/customers"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 200

	msgInvalidCustomerID  = "некорректный ID клиента"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidLimit       = "некорректный limit"
	msgCustomerNotFound   = "клиент не найден"
)

// Handler CRUD клиентов в админке
type Handler struct {
	service CustomerService
	logger  Logger
}

func NewHandler(service CustomerService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/admin/customers?q=&limit=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxSearchLimit {
			h.logger.Warn("GET /admin/customers - Invalid limit: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		limit = n
	}

	list, err := h.service.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		h.logger.Error("GET /admin/customers - Failed to search customers: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	resp := ListCustomersResponse{Customers: make([]CustomerResponse, 0, len(list))}
	for _, c := range list {
		resp.Customers = append(resp.Customers, fromCustomer(c))
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Create POST /api/v1/admin/customers
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/customers - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	customer, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		h.respondServiceError(w, "POST /admin/customers", 0, err)
		return
	}

	h.logger.Info("POST /admin/customers - Customer created: customer_id=%d", customer.ID)
	handlers.RespondJSON(w, http.StatusCreated, fromCustomer(customer))
}

// Get GET /api/v1/admin/customers/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "GET /admin/customers/{id}")
	if !ok {
		return
	}

	customer, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, "GET /admin/customers/{id}", id, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, fromCustomer(customer))
}

// Update PUT /api/v1/admin/customers/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "PUT /admin/customers/{id}")
	if !ok {
		return
	}

	var req CustomerRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/customers/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	customer, err := h.service.Update(r.Context(), id, req.toInput())
	if err != nil {
		h.respondServiceError(w, "PUT /admin/customers/{id}", id, err)
		return
	}

	h.logger.Info("PUT /admin/customers/{id} - Customer updated: customer_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, fromCustomer(customer))
}

// Delete DELETE /api/v1/admin/customers/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "DELETE /admin/customers/{id}")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, "DELETE /admin/customers/{id}", id, err)
		return
	}

	h.logger.Info("DELETE /admin/customers/{id} - Customer deleted: customer_id=%d", id)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, route string) (int64, bool) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("%s - %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidCustomerID)
		return 0, false
	}
	return id, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route string, id int64, err error) {
	switch {
	case errors.Is(err, customersService.ErrInvalidInput):
		h.logger.Warn("%s - Validation failed: %v", route, err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err, customersService.ErrInvalidInput))

	case errors.Is(err, customersService.ErrCustomerNotFound):
		h.logger.Warn("%s - Customer not found: customer_id=%d", route, id)
		handlers.RespondNotFound(w, msgCustomerNotFound)

	default:
		h.logger.Error("%s - Internal error: customer_id=%d, error=%v", route, id, err)
		handlers.RespondInternalError(w)
	}
}
