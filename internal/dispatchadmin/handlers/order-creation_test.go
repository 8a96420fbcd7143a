package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"dispatch-admin/internal/dispatchadmin/service"
	"dispatch-admin/pkg/logging"
)

func newTestLogger(t *testing.T) *logging.ZapLogger {
	t.Helper()
	logger, err := logging.NewZapLogger(zapcore.ErrorLevel)
	require.NoError(t, err)
	return logger
}

type stubOrderCreationService struct {
	orderID string
	err     error
	payload service.OrderPayload
}

func (s *stubOrderCreationService) Create(_ context.Context, payload service.OrderPayload) (string, error) {
	s.payload = payload
	return s.orderID, s.err
}

func TestOrderCreationHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
	}{
		{
			name:           "created",
			body:           `{"userId":"rider-1","description":"grocery run","fee":"30"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "malformed json",
			body:           `{"userId":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown field",
			body:           `{"userId":"rider-1","fee":"30","priority":"high"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "validation error",
			body:           `{"userId":"","fee":"30"}`,
			serviceErr:     service.ErrValidation,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "wallet not found",
			body:           `{"userId":"ghost","fee":"30"}`,
			serviceErr:     service.ErrWalletNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "insufficient funds",
			body:           `{"userId":"rider-1","fee":"30"}`,
			serviceErr:     service.ErrInsufficientFunds,
			expectedStatus: http.StatusPaymentRequired,
		},
		{
			name:           "internal error",
			body:           `{"userId":"rider-1","fee":"30"}`,
			serviceErr:     assert.AnError,
			expectedStatus: http.StatusInternalServerError,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			stub := &stubOrderCreationService{
				orderID: "order-1",
				err:     test.serviceErr,
			}
			handler := NewOrderCreationHandler(stub, newTestLogger(t))

			request := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(test.body))
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, test.expectedStatus, recorder.Code)
			if test.expectedStatus == http.StatusCreated {
				var response OrderCreationResponse
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
				assert.Equal(t, "order-1", response.OrderID)
				assert.Equal(t, "rider-1", stub.payload.UserID)
				assert.Equal(t, "grocery run", stub.payload.Description)
				assert.Equal(t, "30", stub.payload.Fee.String())
			}
		})
	}
}
