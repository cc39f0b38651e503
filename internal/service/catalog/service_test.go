package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/changefeed"
	catalogRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) Create(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

func (m *MockServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

func (m *MockServiceRepository) List(ctx context.Context, filter domain.ServiceFilter) ([]*domain.Service, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Service), args.Error(1)
}

func (m *MockServiceRepository) Update(ctx context.Context, s *domain.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockServiceRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetActive(ctx context.Context, category *domain.ServiceCategory) ([]*domain.Service, bool, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Service), args.Bool(1), args.Error(2)
}

func (m *MockCache) SetActive(ctx context.Context, category *domain.ServiceCategory, services []*domain.Service) error {
	return m.Called(ctx, category, services).Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type recordingNotifier struct {
	events []changefeed.Event
}

func (n *recordingNotifier) Notify(_ context.Context, e changefeed.Event) error {
	n.events = append(n.events, e)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestListActive_CacheHit(t *testing.T) {
	repo := &MockServiceRepository{}
	cache := &MockCache{}
	cached := []*domain.Service{{ID: 1, Name: "Massaggio"}}
	cache.On("GetActive", mock.Anything, (*domain.ServiceCategory)(nil)).Return(cached, true, nil)

	svc := NewService(repo, cache, &recordingNotifier{}, nopLogger{})
	got, err := svc.ListActive(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, cached, got)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestListActive_CacheErrorFallsBackToRepository(t *testing.T) {
	repo := &MockServiceRepository{}
	cache := &MockCache{}
	fromDB := []*domain.Service{{ID: 2, Name: "Manicure"}}
	cache.On("GetActive", mock.Anything, mock.Anything).Return(nil, false, errors.New("connection refused"))
	cache.On("SetActive", mock.Anything, mock.Anything, fromDB).Return(nil)
	repo.On("List", mock.Anything, domain.ServiceFilter{ActiveOnly: true}).Return(fromDB, nil)

	svc := NewService(repo, cache, &recordingNotifier{}, nopLogger{})
	got, err := svc.ListActive(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, fromDB, got)
	cache.AssertExpectations(t)
}

func TestListActive_WithoutCache(t *testing.T) {
	repo := &MockServiceRepository{}
	repo.On("List", mock.Anything, mock.Anything).Return([]*domain.Service{}, nil)

	_, err := NewService(repo, nil, &recordingNotifier{}, nopLogger{}).ListActive(context.Background(), nil)
	require.NoError(t, err)
}

func TestCreate_NormalizesAndInvalidates(t *testing.T) {
	repo := &MockServiceRepository{}
	cache := &MockCache{}
	notifier := &recordingNotifier{}

	repo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Service) bool {
		return s.Name == "Pedicure" && s.PriceCents == 2550 && s.Category == domain.CategoryBeauty && s.Active
	})).Return(&domain.Service{ID: 7, Name: "Pedicure"}, nil)
	cache.On("Invalidate", mock.Anything).Return(nil)

	svc := NewService(repo, cache, notifier, nopLogger{})
	created, err := svc.Create(context.Background(), Input{
		Name:            " Pedicure ",
		DurationMinutes: 45,
		Price:           25.499,
		Category:        "BELLEZZA",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	cache.AssertExpectations(t)
	require.Len(t, notifier.events, 1)
	assert.Equal(t, domain.TableServices, notifier.events[0].Table)
}

func TestCreate_DefaultCategory(t *testing.T) {
	repo := &MockServiceRepository{}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Service) bool {
		return s.Category == domain.CategoryWellness
	})).Return(&domain.Service{ID: 1}, nil)

	_, err := NewService(repo, nil, &recordingNotifier{}, nopLogger{}).
		Create(context.Background(), Input{Name: "Sauna", DurationMinutes: 30})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(&MockServiceRepository{}, nil, &recordingNotifier{}, nopLogger{})

	cases := []Input{
		{Name: "", DurationMinutes: 30},
		{Name: "Taglio", DurationMinutes: 0},
		{Name: "Taglio", DurationMinutes: 30, Price: -1},
		{Name: "Taglio", DurationMinutes: 30, Category: "unknown"},
		{Name: "Taglio", DurationMinutes: 30, ImageURL: ptr.Ptr("taglio.jpg")},
	}
	for _, in := range cases {
		_, err := svc.Create(context.Background(), in)
		assert.ErrorIs(t, err, ErrInvalidInput, "input %+v", in)
	}
}

func TestDelete_InUse(t *testing.T) {
	repo := &MockServiceRepository{}
	repo.On("Delete", mock.Anything, int64(3)).Return(catalogRepo.ErrServiceInUse)

	err := NewService(repo, nil, &recordingNotifier{}, nopLogger{}).Delete(context.Background(), 3)
	assert.ErrorIs(t, err, ErrServiceInUse)
}

func TestCreate_DescriptionAndImage(t *testing.T) {
	repo := &MockServiceRepository{}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Service) bool {
		return s.Description == nil && s.ImageURL != nil && *s.ImageURL == "https://cdn.example.it/sauna.jpg"
	})).Return(&domain.Service{ID: 2}, nil)

	_, err := NewService(repo, nil, &recordingNotifier{}, nopLogger{}).Create(context.Background(), Input{
		Name:            "Sauna",
		Description:     ptr.Ptr("   "),
		DurationMinutes: 30,
		ImageURL:        ptr.Ptr(" https://cdn.example.it/sauna.jpg "),
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetActive(t *testing.T) {
	repo := &MockServiceRepository{}
	repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Service{ID: 1, Name: "Sauna", Active: true}, nil)
	repo.On("GetByID", mock.Anything, int64(2)).Return(&domain.Service{ID: 2, Name: "Solarium", Active: false}, nil)
	repo.On("GetByID", mock.Anything, int64(3)).Return(nil, catalogRepo.ErrServiceNotFound)

	svc := NewService(repo, nil, &recordingNotifier{}, nopLogger{})

	got, err := svc.GetActive(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Sauna", got.Name)

	_, err = svc.GetActive(context.Background(), 2)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = svc.GetActive(context.Background(), 3)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}
