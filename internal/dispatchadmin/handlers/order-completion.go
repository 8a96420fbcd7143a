package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dispatch-admin/internal/dispatchadmin/service"
	"dispatch-admin/pkg/logging"
)

type OrderCompletionHandler struct {
	service OrderCompletionService
	logger  *logging.ZapLogger
}

type OrderCompletionService interface {
	Complete(ctx context.Context, orderID, payerID string) error
}

type OrderCompletionRequest struct {
	UserID string `json:"userId"`
}

func NewOrderCompletionHandler(service OrderCompletionService, logger *logging.ZapLogger) *OrderCompletionHandler {
	return &OrderCompletionHandler{
		service: service,
		logger:  logger,
	}
}

func (h *OrderCompletionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	request, err := decodeJSON[OrderCompletionRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "input decoding error", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if request.UserID == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	err = h.service.Complete(r.Context(), orderID, request.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrWalletNotFound):
			h.logger.DebugCtx(r.Context(), "order completion target not found", zap.Error(err))
			w.WriteHeader(http.StatusNotFound)
			return
		case errors.Is(err, service.ErrInvalidTransition):
			h.logger.DebugCtx(r.Context(), "invalid order transition", zap.String("orderID", orderID))
			w.WriteHeader(http.StatusConflict)
			return
		case errors.Is(err, service.ErrInsufficientBalance):
			h.logger.DebugCtx(r.Context(), "insufficient balance for fee debit", zap.String("orderID", orderID))
			w.WriteHeader(http.StatusPaymentRequired)
			return
		default:
			h.logger.ErrorCtx(r.Context(), "error completing order", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
}
