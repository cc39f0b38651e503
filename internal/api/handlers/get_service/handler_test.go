package get_service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/catalog"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetActive(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRouter(svc CatalogService) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/services/{id}", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodGet)
	return r
}

func TestHandle_Detail(t *testing.T) {
	svc := &MockCatalog{}
	svc.On("GetActive", mock.Anything, int64(4)).Return(&domain.Service{
		ID:              4,
		Name:            "Massaggio",
		Description:     ptr.Ptr("Massaggio rilassante"),
		DurationMinutes: 60,
		PriceCents:      5000,
		ImageURL:        ptr.Ptr("https://cdn.example.it/massaggio.jpg"),
		Active:          true,
		Category:        domain.CategoryVitality,
	}, nil)

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/services/4", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"id": 4,
		"name": "Massaggio",
		"description": "Massaggio rilassante",
		"durationMinutes": 60,
		"price": 50,
		"priceCents": 5000,
		"imageUrl": "https://cdn.example.it/massaggio.jpg",
		"active": true,
		"category": "vitalita",
		"categoryName": "Vitalità"
	}`, rec.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		err      error
		wantCode int
	}{
		{name: "inactive or missing", path: "/api/v1/services/5", err: catalog.ErrServiceNotFound, wantCode: http.StatusNotFound},
		{name: "store failure", path: "/api/v1/services/5", err: errors.New("db down"), wantCode: http.StatusInternalServerError},
		{name: "invalid id", path: "/api/v1/services/abc", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockCatalog{}
			if tt.err != nil {
				svc.On("GetActive", mock.Anything, int64(5)).Return(nil, tt.err)
			}

			rec := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
