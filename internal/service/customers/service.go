package customers

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	customerRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/customer"
)

// Service сервис управления клиентами
type Service struct {
	repo   CustomerRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса клиентов
func NewService(repo CustomerRepository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create создает клиента. Имя обязательно, пустые телефон и email сохраняются как NULL.
func (s *Service) Create(ctx context.Context, in Input) (*domain.Customer, error) {
	customer, err := normalize(in)
	if err != nil {
		s.logger.Warn("CreateCustomer: validation failed: %v", err)
		return nil, err
	}

	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		s.logger.Error("CreateCustomer: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateCustomer: created customer id=%d", created.ID)
	return created, nil
}

// Get получает клиента по ID
func (s *Service) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, customerRepo.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		s.logger.Error("GetCustomer: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}
	return customer, nil
}

// Search ищет клиентов по подстроке имени, email или телефона
func (s *Service) Search(ctx context.Context, q string, limit int) ([]*domain.Customer, error) {
	result, err := s.repo.Search(ctx, q, limit)
	if err != nil {
		s.logger.Error("SearchCustomers: repository error for q=%q: %v", q, err)
		return nil, fmt.Errorf("%w: Search - repository error: %v", ErrInternal, err)
	}
	return result, nil
}

// Update обновляет данные клиента
func (s *Service) Update(ctx context.Context, id int64, in Input) (*domain.Customer, error) {
	customer, err := normalize(in)
	if err != nil {
		s.logger.Warn("UpdateCustomer: validation failed for id=%d: %v", id, err)
		return nil, err
	}
	customer.ID = id

	if err := s.repo.Update(ctx, customer); err != nil {
		if errors.Is(err, customerRepo.ErrCustomerNotFound) {
			s.logger.Warn("UpdateCustomer: customer id=%d not found", id)
			return nil, ErrCustomerNotFound
		}
		s.logger.Error("UpdateCustomer: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateCustomer: updated customer id=%d", id)
	return s.Get(ctx, id)
}

// Delete удаляет клиента. Его записи сохраняются без привязки к клиенту.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, customerRepo.ErrCustomerNotFound) {
			s.logger.Warn("DeleteCustomer: customer id=%d not found", id)
			return ErrCustomerNotFound
		}
		s.logger.Error("DeleteCustomer: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteCustomer: deleted customer id=%d", id)
	return nil
}

func normalize(in Input) (*domain.Customer, error) {
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return nil, fmt.Errorf("%w: fullName is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxNameLength {
		return nil, fmt.Errorf("%w: fullName is too long", ErrInvalidInput)
	}

	email := trimmedOrNil(in.Email)
	if email != nil {
		if _, err := mail.ParseAddress(*email); err != nil {
			return nil, fmt.Errorf("%w: email is not valid", ErrInvalidInput)
		}
	}

	return &domain.Customer{
		FullName: name,
		Phone:    trimmedOrNil(in.Phone),
		Email:    email,
	}, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
