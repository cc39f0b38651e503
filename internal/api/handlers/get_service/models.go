package get_service

import (
	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// ServiceDetailResponse карточка услуги с названием категории
type ServiceDetailResponse struct {
	handlers.ServiceResponse
	CategoryName string `json:"categoryName"`
}

func fromService(s *domain.Service) ServiceDetailResponse {
	return ServiceDetailResponse{
		ServiceResponse: handlers.FromService(s),
		CategoryName:    s.Category.Label(),
	}
}
