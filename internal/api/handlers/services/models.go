package services

import (
	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/service/catalog"
)

// ServiceRequest HTTP request model для создания и обновления услуги
type ServiceRequest struct {
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"` // в евро
	ImageURL        *string `json:"imageUrl,omitempty"`
	Active          *bool   `json:"active,omitempty"`
	Category        string  `json:"category,omitempty"`
}

// ListServicesResponse HTTP response model
type ListServicesResponse struct {
	Services []handlers.ServiceResponse `json:"services"`
}

func (r *ServiceRequest) toInput() catalog.Input {
	return catalog.Input{
		Name:            r.Name,
		Description:     r.Description,
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		ImageURL:        r.ImageURL,
		Active:          r.Active,
		Category:        r.Category,
	}
}
