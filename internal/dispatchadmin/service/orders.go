package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"dispatch-admin/internal/dispatchadmin/data"
	"dispatch-admin/pkg/logging"
)

type OrderPayload struct {
	UserID      string
	Description string
	Fee         decimal.Decimal
}

type OrderRepository interface {
	InsertOrder(ctx context.Context, order *data.Order) error
	GetOrder(ctx context.Context, orderID string) (data.Order, error)
	SetOrderCompleted(ctx context.Context, orderID string) error
}

type WalletService interface {
	GetWallet(ctx context.Context, userID string) (WalletInfo, error)
	UpdateBalance(
		ctx context.Context,
		userID string,
		amount decimal.Decimal,
		transactionType data.TransactionType,
		description string,
	) error
}

// Orders drives the order lifecycle: in_progress on creation, completed
// on settlement. The canceled status stays reserved, nothing produces it.
type Orders struct {
	orderRepository OrderRepository
	wallet          WalletService
	logger          *logging.ZapLogger
}

func NewOrders(orderRepository OrderRepository, wallet WalletService, logger *logging.ZapLogger) *Orders {
	return &Orders{
		orderRepository: orderRepository,
		wallet:          wallet,
		logger:          logger,
	}
}

// Create checks the payer can currently cover the fee, then persists the
// order as in_progress. The check is advisory: it holds no funds, the
// actual debit happens at completion.
func (o *Orders) Create(ctx context.Context, payload OrderPayload) (string, error) {
	if payload.UserID == "" {
		return "", fmt.Errorf("%w: order payer id is required", ErrValidation)
	}
	if payload.Fee.IsNegative() {
		return "", fmt.Errorf("%w: order fee must be non-negative", ErrValidation)
	}

	wallet, err := o.wallet.GetWallet(ctx, payload.UserID)
	if err != nil {
		return "", err //nolint:wrapcheck // unnecessary
	}
	if wallet.Balance.LessThan(payload.Fee) {
		return "", ErrInsufficientFunds
	}

	order := &data.Order{
		ID:          uuid.NewString(),
		UserID:      payload.UserID,
		Fee:         payload.Fee,
		Description: payload.Description,
		Status:      data.InProgressStatus,
		CreatedAt:   time.Now(),
	}
	if err := o.orderRepository.InsertOrder(ctx, order); err != nil {
		return "", fmt.Errorf("error inserting order: %w", err)
	}
	o.logger.DebugCtx(
		ctx,
		"order created",
		zap.String("orderID", order.ID),
		zap.String("userID", order.UserID),
		zap.String("fee", order.Fee.String()),
	)
	return order.ID, nil
}

// Complete re-validates the persisted status, flips the order to
// completed and then debits the payer's wallet. The status flip and the
// debit are two separate store transactions: a debit failure leaves the
// order already marked completed with no matching ledger entry.
func (o *Orders) Complete(ctx context.Context, orderID, payerID string) error {
	order, err := o.orderRepository.GetOrder(ctx, orderID)
	if err != nil {
		return mapOrderError(err)
	}
	if order.Status != data.InProgressStatus {
		return fmt.Errorf("%w: only in-progress orders can be completed", ErrInvalidTransition)
	}

	if err := o.orderRepository.SetOrderCompleted(ctx, orderID); err != nil {
		return mapOrderError(err)
	}

	err = o.wallet.UpdateBalance(
		ctx,
		payerID,
		order.Fee.Neg(),
		data.OrderFeeTransaction,
		fmt.Sprintf("Fee for order #%s", orderID),
	)
	if err != nil {
		o.logger.ErrorCtx(
			ctx,
			"order marked completed but fee debit failed",
			zap.String("orderID", orderID),
			zap.String("userID", payerID),
			zap.Error(err),
		)
		return err //nolint:wrapcheck // unnecessary
	}
	return nil
}

func mapOrderError(err error) error {
	switch {
	case errors.Is(err, data.ErrNotFound):
		return ErrOrderNotFound
	case errors.Is(err, data.ErrCorruptRecord):
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	default:
		return fmt.Errorf("reading order failed: %w", err)
	}
}
