package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"dispatch-admin/internal/dispatchadmin/data"
	"dispatch-admin/pkg/logging"
)

type WalletInfo struct {
	UserID       string
	Balance      decimal.Decimal
	Transactions []data.WalletTransaction
}

type WalletRepository interface {
	GetWalletBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	GetWalletBalanceForUpdate(ctx context.Context, userID string) (decimal.Decimal, error)
	GetWalletTransactions(ctx context.Context, userID string) ([]data.WalletTransaction, error)
	IncrementWalletBalance(ctx context.Context, userID string, delta decimal.Decimal) error
	InsertWalletTransaction(
		ctx context.Context,
		userID string,
		amount decimal.Decimal,
		transactionType data.TransactionType,
		description string,
	) error
}

// Wallet owns the ledger invariants: a balance never goes negative and
// every balance change appends exactly one audit row in the same
// database transaction.
type Wallet struct {
	transactionManager TransactionManager
	repository         WalletRepository
	logger             *logging.ZapLogger
}

func NewWallet(transactionManager TransactionManager, repository WalletRepository, logger *logging.ZapLogger) *Wallet {
	return &Wallet{
		transactionManager: transactionManager,
		repository:         repository,
		logger:             logger,
	}
}

func (w *Wallet) GetWallet(ctx context.Context, userID string) (WalletInfo, error) {
	res := WalletInfo{
		UserID: userID,
	}
	err := w.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		balance, err := w.repository.GetWalletBalance(ctx, userID)
		if err != nil {
			return mapWalletError(err)
		}
		res.Balance = balance
		transactions, err := w.repository.GetWalletTransactions(ctx, userID)
		if err != nil {
			return mapWalletError(err)
		}
		res.Transactions = transactions
		return nil
	})
	if err != nil {
		return WalletInfo{}, err //nolint:wrapcheck // unnecessary
	}
	return res, nil
}

// UpdateBalance applies a signed delta: positive credits, negative
// debits. The read, the negative-balance check, the increment and the
// audit append all happen in one database transaction; on any failure
// nothing is written. A missing wallet is never created here.
func (w *Wallet) UpdateBalance(
	ctx context.Context,
	userID string,
	amount decimal.Decimal,
	transactionType data.TransactionType,
	description string,
) error {
	if !transactionType.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", ErrValidation, transactionType)
	}
	w.logger.DebugCtx(
		ctx,
		"updating wallet balance",
		zap.String("userID", userID),
		zap.String("amount", amount.String()),
		zap.String("type", string(transactionType)),
	)
	return w.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		balance, err := w.repository.GetWalletBalanceForUpdate(ctx, userID)
		if err != nil {
			return mapWalletError(err)
		}
		newBalance := balance.Add(amount)
		if newBalance.IsNegative() {
			return ErrInsufficientBalance
		}
		if err := w.repository.IncrementWalletBalance(ctx, userID, amount); err != nil {
			return fmt.Errorf("incrementing wallet balance failed: %w", err)
		}
		if err := w.repository.InsertWalletTransaction(ctx, userID, amount, transactionType, description); err != nil {
			return fmt.Errorf("appending wallet transaction failed: %w", err)
		}
		return nil
	})
}

func mapWalletError(err error) error {
	switch {
	case errors.Is(err, data.ErrNotFound):
		return ErrWalletNotFound
	case errors.Is(err, data.ErrCorruptRecord):
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	default:
		return fmt.Errorf("reading wallet failed: %w", err)
	}
}
