package customers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	customerRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/customer"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Search(ctx context.Context, q string, limit int) ([]*domain.Customer, error) {
	args := m.Called(ctx, q, limit)
	return args.Get(0).([]*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Update(ctx context.Context, c *domain.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestCreate_TrimsAndNullsEmptyFields(t *testing.T) {
	repo := &MockCustomerRepository{}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Customer) bool {
		return c.FullName == "Maria Rossi" && c.Phone == nil && *c.Email == "maria@example.com"
	})).Return(&domain.Customer{ID: 5, FullName: "Maria Rossi"}, nil)

	svc := NewService(repo, nopLogger{})
	created, err := svc.Create(context.Background(), Input{
		FullName: "  Maria Rossi ",
		Phone:    ptr.Ptr("   "),
		Email:    ptr.Ptr(" maria@example.com "),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)
	repo.AssertExpectations(t)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(&MockCustomerRepository{}, nopLogger{})

	_, err := svc.Create(context.Background(), Input{FullName: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(context.Background(), Input{FullName: "Anna", Email: ptr.Ptr("not-an-email")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDelete_NotFound(t *testing.T) {
	repo := &MockCustomerRepository{}
	repo.On("Delete", mock.Anything, int64(9)).Return(customerRepo.ErrCustomerNotFound)

	err := NewService(repo, nopLogger{}).Delete(context.Background(), 9)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}
