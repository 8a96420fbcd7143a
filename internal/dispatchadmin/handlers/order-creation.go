package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"dispatch-admin/internal/dispatchadmin/service"
	"dispatch-admin/pkg/logging"
)

type OrderCreationHandler struct {
	service OrderCreationService
	logger  *logging.ZapLogger
}

type OrderCreationService interface {
	Create(ctx context.Context, payload service.OrderPayload) (string, error)
}

type OrderCreationRequest struct {
	UserID      string          `json:"userId"`
	Description string          `json:"description"`
	Fee         decimal.Decimal `json:"fee"`
}

type OrderCreationResponse struct {
	OrderID string `json:"orderId"`
}

func NewOrderCreationHandler(service OrderCreationService, logger *logging.ZapLogger) *OrderCreationHandler {
	return &OrderCreationHandler{
		service: service,
		logger:  logger,
	}
}

func (h *OrderCreationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	request, err := decodeJSON[OrderCreationRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "input decoding error", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	orderID, err := h.service.Create(r.Context(), service.OrderPayload{
		UserID:      request.UserID,
		Description: request.Description,
		Fee:         request.Fee,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			h.logger.DebugCtx(r.Context(), "invalid order payload", zap.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrWalletNotFound):
			h.logger.DebugCtx(r.Context(), "payer wallet not found", zap.String("userID", request.UserID))
			w.WriteHeader(http.StatusNotFound)
			return
		case errors.Is(err, service.ErrInsufficientFunds):
			h.logger.DebugCtx(r.Context(), "insufficient funds for order", zap.String("userID", request.UserID))
			w.WriteHeader(http.StatusPaymentRequired)
			return
		default:
			h.logger.ErrorCtx(r.Context(), "error creating order", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusCreated)
	if err := tryWriteResponseJSON(w, OrderCreationResponse{OrderID: orderID}); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
