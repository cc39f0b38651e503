package approve_request

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	approveRequest "github.com/m04kA/SMC-SalonService/internal/usecase/approve_request"
)

type MockUseCase struct {
	mock.Mock
}

func (m *MockUseCase) Execute(ctx context.Context, req *approveRequest.Request) (*approveRequest.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*approveRequest.Response), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(uc ApproveRequestUseCase, path string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/admin/requests/{id}/approve", NewHandler(uc, nopLogger{}).Handle).Methods(http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
	return rec
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		resp   *approveRequest.Response
		err    error
		status int
		body   string
	}{
		{
			name:   "approved",
			resp:   &approveRequest.Response{RequestID: 5, AppointmentID: 11, CustomerID: 2, CustomerCreated: true},
			status: http.StatusOK,
			body:   `{"requestId":5,"appointmentId":11,"customerId":2,"customerCreated":true,"overlaps":false}`,
		},
		{name: "already handled", err: approveRequest.ErrAlreadyHandled, status: http.StatusConflict, body: `{"error":"already handled"}`},
		{name: "not found", err: approveRequest.ErrRequestNotFound, status: http.StatusNotFound, body: `{"error":"заявка не найдена"}`},
		{name: "strict conflict", err: approveRequest.ErrConflict, status: http.StatusConflict, body: `{"error":"интервал заявки пересекается с другой записью"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &MockUseCase{}
			if tt.resp != nil {
				uc.On("Execute", mock.Anything, &approveRequest.Request{RequestID: 5}).Return(tt.resp, nil)
			} else {
				uc.On("Execute", mock.Anything, &approveRequest.Request{RequestID: 5}).Return(nil, tt.err)
			}

			rec := serve(uc, "/admin/requests/5/approve")

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
			uc.AssertExpectations(t)
		})
	}
}

func TestHandle_InvalidID(t *testing.T) {
	uc := &MockUseCase{}
	rec := serve(uc, "/admin/requests/abc/approve")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
