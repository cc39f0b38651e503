package customers

import (
	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	customersService "github.com/m04kA/SMC-SalonService/internal/service/customers"
)

// CustomerRequest HTTP request model для создания и обновления
type CustomerRequest struct {
	FullName string  `json:"fullName"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// CustomerResponse HTTP response model
type CustomerResponse struct {
	ID        int64   `json:"id"`
	FullName  string  `json:"fullName"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	CreatedAt string  `json:"createdAt"`
}

// ListCustomersResponse HTTP response model
type ListCustomersResponse struct {
	Customers []CustomerResponse `json:"customers"`
}

func (r *CustomerRequest) toInput() customersService.Input {
	return customersService.Input{
		FullName: r.FullName,
		Phone:    r.Phone,
		Email:    r.Email,
	}
}

func fromCustomer(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		FullName:  c.FullName,
		Phone:     c.Phone,
		Email:     c.Email,
		CreatedAt: handlers.FormatTime(c.CreatedAt),
	}
}
