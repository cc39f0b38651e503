package get_availability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/schedule"
	getAvailability "github.com/m04kA/SMC-SalonService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-SalonService/internal/usecase/usecasetest"
)

func newTestHandler(t *testing.T) (*Handler, *domain.Service) {
	t.Helper()
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	store := usecasetest.NewStore()
	svc := store.AddService(domain.Service{Name: "Massaggio", DurationMinutes: 60, Active: true})
	uc := getAvailability.NewUseCase(
		store.AppointmentRepo(),
		store.ServiceRepo(),
		schedule.MustCalendar(rome, schedule.DefaultHours(), 30),
		&usecasetest.Logger{},
	).WithTimeProvider(usecasetest.FixedClock{T: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)})
	return NewHandler(uc, &usecasetest.Logger{}), svc
}

// В воскресенье салон закрыт: слоты запрошены, но список пуст
func TestHandle_ClosedDayKeepsEmptySlots(t *testing.T) {
	h, svc := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/availability?date=2026-05-17&serviceId=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), svc.ID)
	assert.JSONEq(t, `{"date":"2026-05-17","busy":[],"serviceId":1,"durationMinutes":60,"slots":[]}`, rec.Body.String())
}

func TestHandle_WithoutServiceSlotsAreNull(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/availability?date=2026-05-17", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"date":"2026-05-17","busy":[],"slots":null}`, rec.Body.String())
}

func TestHandle_BadInput(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name  string
		query string
		code  int
	}{
		{name: "missing date", query: "", code: http.StatusBadRequest},
		{name: "invalid date", query: "?date=17-05-2026", code: http.StatusBadRequest},
		{name: "invalid service id", query: "?date=2026-05-17&serviceId=abc", code: http.StatusBadRequest},
		{name: "unknown service", query: "?date=2026-05-17&serviceId=99", code: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/availability"+tt.query, nil))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
