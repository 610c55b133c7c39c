package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-service/internal/common/logger"
	"laundry-service/internal/domain"
)

func TestWriteError_Mapping(t *testing.T) {
	var logs bytes.Buffer
	lg := logger.NewWithWriter("test", &logs)

	tests := []struct {
		name string
		err  error
		code int
		typ  string
	}{
		{"not found", domain.NotFound("order", 4), http.StatusNotFound, "not_found"},
		{"invalid", domain.InvalidArgument("status is required"), http.StatusBadRequest, "invalid_argument"},
		{"internal", fmt.Errorf("update order: %w", errors.New("conn reset")), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/orders/4", nil)
			WriteError(rr, req, lg, tt.err)

			assert.Equal(t, tt.code, rr.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.typ, body["type"])
			assert.EqualValues(t, tt.code, body["status"])
		})
	}
	assert.Contains(t, logs.String(), "conn reset")
	assert.NotContains(t, logs.String(), "status is required")
}

func TestRequestID(t *testing.T) {
	var seen string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}), RequestID())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "abc", seen)
}

func TestLimit_RejectsWhenSaturated(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entered <- struct{}{}
		<-release
		w.WriteHeader(http.StatusNoContent)
	}), Limit(1, 20*time.Millisecond))

	first := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
		close(done)
	}()
	<-entered

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, second.Code)

	close(release)
	<-done
	assert.Equal(t, http.StatusNoContent, first.Code)
}

func TestPathAndQueryID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/orders/7/claim?staffId=x", nil)
	req.SetPathValue("orderId", "7")

	id, err := PathID(req, "orderId")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	_, err = QueryID(req, "staffId")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = QueryID(httptest.NewRequest(http.MethodPut, "/", nil), "staffId")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
