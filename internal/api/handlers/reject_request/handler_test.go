package reject_request

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonService/internal/service/requests"
)

type fakeService struct {
	results []error
	calls   int
}

func (f *fakeService) Reject(_ context.Context, _ int64) error {
	err := f.results[f.calls]
	f.calls++
	return err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandle_RejectTwice(t *testing.T) {
	svc := &fakeService{results: []error{nil, requests.ErrAlreadyHandled}}
	r := mux.NewRouter()
	r.HandleFunc("/admin/requests/{id}/reject", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodPost)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/requests/9/reject", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"requestId":9,"status":"rejected"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/requests/9/reject", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"already handled"}`, rec.Body.String())
}
