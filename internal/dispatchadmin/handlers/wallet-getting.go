package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"dispatch-admin/internal/dispatchadmin/service"
	"dispatch-admin/pkg/logging"
)

type WalletGettingHandler struct {
	service WalletGettingService
	logger  *logging.ZapLogger
}

type WalletGettingService interface {
	GetWallet(ctx context.Context, userID string) (service.WalletInfo, error)
}

type WalletResponse struct {
	UserID       string                `json:"userId"`
	Balance      float64               `json:"balance"`
	Transactions []TransactionResponse `json:"transactions"`
}

type TransactionResponse struct {
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewWalletGettingHandler(service WalletGettingService, logger *logging.ZapLogger) *WalletGettingHandler {
	return &WalletGettingHandler{
		service: service,
		logger:  logger,
	}
}

func (h *WalletGettingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromCtx(r.Context())
	if err != nil {
		h.logger.ErrorCtx(r.Context(), failedToRecoverUserIDErrorMessage, zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	wallet, err := h.service.GetWallet(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWalletNotFound):
			h.logger.DebugCtx(r.Context(), "wallet not found", zap.String("userID", userID))
			w.WriteHeader(http.StatusNotFound)
			return
		default:
			h.logger.ErrorCtx(r.Context(), "error getting wallet", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}

	balance, _ := wallet.Balance.Float64()
	response := WalletResponse{
		UserID:       wallet.UserID,
		Balance:      balance,
		Transactions: make([]TransactionResponse, len(wallet.Transactions)),
	}
	for i, transaction := range wallet.Transactions {
		amount, _ := transaction.Amount.Float64()
		response.Transactions[i] = TransactionResponse{
			Amount:      amount,
			Type:        string(transaction.Type),
			Description: transaction.Description,
			Timestamp:   transaction.CreatedAt,
		}
	}
	if err := tryWriteResponseJSON(w, response); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}
