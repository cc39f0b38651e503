package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/changefeed"
	catalogRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonService/pkg/validate"
)

// Service сервис каталога услуг
type Service struct {
	repo     ServiceRepository
	cache    Cache
	notifier Notifier
	logger   Logger
}

// NewService создает сервис каталога. cache может быть nil.
func NewService(repo ServiceRepository, cache Cache, notifier Notifier, logger Logger) *Service {
	return &Service{repo: repo, cache: cache, notifier: notifier, logger: logger}
}

// ListActive публичный список активных услуг, через кэш если он включен.
// Ошибки кэша не ломают выдачу: читаем из БД.
func (s *Service) ListActive(ctx context.Context, category *domain.ServiceCategory) ([]*domain.Service, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetActive(ctx, category)
		if err != nil {
			s.logger.Warn("ListActiveServices: cache read failed: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	services, err := s.repo.List(ctx, domain.ServiceFilter{ActiveOnly: true, Category: category})
	if err != nil {
		s.logger.Error("ListActiveServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListActive - repository error: %v", ErrInternal, err)
	}

	if s.cache != nil {
		if err := s.cache.SetActive(ctx, category, services); err != nil {
			s.logger.Warn("ListActiveServices: cache write failed: %v", err)
		}
	}
	return services, nil
}

// ListAll все услуги, включая неактивные (админка)
func (s *Service) ListAll(ctx context.Context) ([]*domain.Service, error) {
	services, err := s.repo.List(ctx, domain.ServiceFilter{})
	if err != nil {
		s.logger.Error("ListServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAll - repository error: %v", ErrInternal, err)
	}
	return services, nil
}

// Get получает услугу по ID
func (s *Service) Get(ctx context.Context, id int64) (*domain.Service, error) {
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetService: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}
	return svc, nil
}

// GetActive публичная карточка услуги. Неактивная услуга для клиента не существует.
func (s *Service) GetActive(ctx context.Context, id int64) (*domain.Service, error) {
	svc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

// Create создает услугу, новая услуга всегда активна
func (s *Service) Create(ctx context.Context, in Input) (*domain.Service, error) {
	svc, err := normalize(in)
	if err != nil {
		s.logger.Warn("CreateService: validation failed: %v", err)
		return nil, err
	}
	svc.Active = true

	created, err := s.repo.Create(ctx, svc)
	if err != nil {
		s.logger.Error("CreateService: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateService: created service id=%d name=%q", created.ID, created.Name)
	s.changed(ctx, changefeed.OpInsert, created.ID)
	return created, nil
}

// Update обновляет услугу. Active == nil сохраняет текущее значение.
func (s *Service) Update(ctx context.Context, id int64, in Input) (*domain.Service, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	svc, err := normalize(in)
	if err != nil {
		s.logger.Warn("UpdateService: validation failed for id=%d: %v", id, err)
		return nil, err
	}
	svc.ID = id
	svc.Active = current.Active
	if in.Active != nil {
		svc.Active = *in.Active
	}

	if err := s.repo.Update(ctx, svc); err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("UpdateService: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateService: updated service id=%d", id)
	s.changed(ctx, changefeed.OpUpdate, id)
	svc.CreatedAt = current.CreatedAt
	return svc, nil
}

// Delete удаляет услугу, если на нее нет ссылок
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, catalogRepo.ErrServiceNotFound):
			return ErrServiceNotFound
		case errors.Is(err, catalogRepo.ErrServiceInUse):
			s.logger.Warn("DeleteService: service id=%d is referenced", id)
			return ErrServiceInUse
		}
		s.logger.Error("DeleteService: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteService: deleted service id=%d", id)
	s.changed(ctx, changefeed.OpDelete, id)
	return nil
}

// changed сбрасывает кэш и публикует событие. Изменение уже сохранено,
// поэтому ошибки только логируются.
func (s *Service) changed(ctx context.Context, op changefeed.Op, id int64) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("catalog: cache invalidation failed: %v", err)
		}
	}
	if err := s.notifier.Notify(ctx, changefeed.Event{Table: domain.TableServices, Op: op, ID: id}); err != nil {
		s.logger.Warn("catalog: notify %s id=%d failed: %v", op, id, err)
	}
}

func normalize(in Input) (*domain.Service, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxNameLength {
		return nil, fmt.Errorf("%w: name is too long", ErrInvalidInput)
	}
	if in.DurationMinutes <= 0 || in.DurationMinutes > domain.MaxDurationMins {
		return nil, fmt.Errorf("%w: durationMinutes must be between 1 and %d", ErrInvalidInput, domain.MaxDurationMins)
	}
	if in.Price < 0 || math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		return nil, fmt.Errorf("%w: price must be a non-negative number", ErrInvalidInput)
	}

	category, ok := domain.ParseCategory(strings.ToLower(strings.TrimSpace(in.Category)))
	if !ok {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.Category)
	}

	description := trimmed(in.Description)
	if description != nil && len(*description) > domain.MaxDescriptionLength {
		return nil, fmt.Errorf("%w: description is too long", ErrInvalidInput)
	}
	imageURL := trimmed(in.ImageURL)
	if imageURL != nil {
		if err := validate.Var("imageUrl", *imageURL, "http_url"); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	return &domain.Service{
		Name:            name,
		Description:     description,
		DurationMinutes: in.DurationMinutes,
		PriceCents:      int64(math.Round(in.Price * 100)),
		ImageURL:        imageURL,
		Category:        category,
	}, nil
}

// trimmed обрезает пробелы; пустая строка дает nil
func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
