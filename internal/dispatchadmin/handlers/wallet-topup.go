package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"dispatch-admin/internal/dispatchadmin/data"
	"dispatch-admin/internal/dispatchadmin/service"
	"dispatch-admin/pkg/logging"
)

type WalletTopUpHandler struct {
	service WalletTopUpService
	logger  *logging.ZapLogger
}

type WalletTopUpService interface {
	UpdateBalance(
		ctx context.Context,
		userID string,
		amount decimal.Decimal,
		transactionType data.TransactionType,
		description string,
	) error
}

type WalletTopUpRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

func NewWalletTopUpHandler(service WalletTopUpService, logger *logging.ZapLogger) *WalletTopUpHandler {
	return &WalletTopUpHandler{
		service: service,
		logger:  logger,
	}
}

func (h *WalletTopUpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	userID, err := userIDFromCtx(r.Context())
	if err != nil {
		h.logger.ErrorCtx(r.Context(), failedToRecoverUserIDErrorMessage, zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	request, err := decodeJSON[WalletTopUpRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "input decoding error", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if !request.Amount.IsPositive() {
		h.logger.DebugCtx(r.Context(), "non-positive top-up amount", zap.String("amount", request.Amount.String()))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	err = h.service.UpdateBalance(r.Context(), userID, request.Amount, data.TopUpTransaction, request.Description)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWalletNotFound):
			h.logger.DebugCtx(r.Context(), "wallet not found", zap.String("userID", userID))
			w.WriteHeader(http.StatusNotFound)
			return
		default:
			h.logger.ErrorCtx(r.Context(), "error topping up wallet", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
}
