package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch-admin/internal/dispatchadmin/data"
)

func newTestWallet(t *testing.T, ledger *fakeLedger) *Wallet {
	t.Helper()
	return NewWallet(passThroughTransactionManager{}, ledger, newTestLogger(t))
}

func TestUpdateBalanceKeepsLedgerInSync(t *testing.T) {
	ledger := newFakeLedger()
	ledger.addWallet("rider-1", 0)
	wallet := newTestWallet(t, ledger)
	ctx := context.Background()

	steps := []struct {
		amount          int64
		transactionType data.TransactionType
	}{
		{amount: 100, transactionType: data.TopUpTransaction},
		{amount: -30, transactionType: data.OrderFeeTransaction},
		{amount: 10, transactionType: data.RefundTransaction},
		{amount: -50, transactionType: data.PayoutTransaction},
	}
	for _, step := range steps {
		err := wallet.UpdateBalance(ctx, "rider-1", decimal.NewFromInt(step.amount), step.transactionType, "test")
		require.NoError(t, err)

		info, err := wallet.GetWallet(ctx, "rider-1")
		require.NoError(t, err)

		sum := decimal.Zero
		for _, transaction := range info.Transactions {
			sum = sum.Add(transaction.Amount)
		}
		assert.True(t, info.Balance.Equal(sum), "balance %s != transactions sum %s", info.Balance, sum)
		assert.False(t, info.Balance.IsNegative())
	}

	info, err := wallet.GetWallet(ctx, "rider-1")
	require.NoError(t, err)
	assert.True(t, info.Balance.Equal(decimal.NewFromInt(30)))
	assert.Len(t, info.Transactions, len(steps))
}

func TestUpdateBalanceRejectsOverdraft(t *testing.T) {
	ledger := newFakeLedger()
	ledger.addWallet("rider-1", 20)
	wallet := newTestWallet(t, ledger)
	ctx := context.Background()

	err := wallet.UpdateBalance(ctx, "rider-1", decimal.NewFromInt(-30), data.OrderFeeTransaction, "fee")
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	info, err := wallet.GetWallet(ctx, "rider-1")
	require.NoError(t, err)
	assert.True(t, info.Balance.Equal(decimal.NewFromInt(20)))
	assert.Empty(t, info.Transactions)
}

func TestUpdateBalanceTopUp(t *testing.T) {
	ledger := newFakeLedger()
	ledger.addWallet("shop-1", 50)
	wallet := newTestWallet(t, ledger)
	ctx := context.Background()

	err := wallet.UpdateBalance(ctx, "shop-1", decimal.NewFromInt(25), data.TopUpTransaction, "manual top-up")
	require.NoError(t, err)

	info, err := wallet.GetWallet(ctx, "shop-1")
	require.NoError(t, err)
	assert.True(t, info.Balance.Equal(decimal.NewFromInt(75)))
	require.Len(t, info.Transactions, 1)
	assert.True(t, info.Transactions[0].Amount.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, data.TopUpTransaction, info.Transactions[0].Type)
	assert.Equal(t, "manual top-up", info.Transactions[0].Description)
}

func TestUpdateBalanceUnknownType(t *testing.T) {
	ledger := newFakeLedger()
	ledger.addWallet("rider-1", 100)
	wallet := newTestWallet(t, ledger)

	err := wallet.UpdateBalance(context.Background(), "rider-1", decimal.NewFromInt(10), data.TransactionType("bonus"), "")
	assert.ErrorIs(t, err, ErrValidation)

	info, err := wallet.GetWallet(context.Background(), "rider-1")
	require.NoError(t, err)
	assert.Empty(t, info.Transactions)
}

func TestUpdateBalanceMissingWallet(t *testing.T) {
	wallet := newTestWallet(t, newFakeLedger())

	err := wallet.UpdateBalance(context.Background(), "ghost", decimal.NewFromInt(10), data.TopUpTransaction, "")
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestGetWalletMissing(t *testing.T) {
	wallet := newTestWallet(t, newFakeLedger())

	_, err := wallet.GetWallet(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestGetWalletCorruptRecord(t *testing.T) {
	ledger := newFakeLedger()
	ledger.addWallet("rider-1", 10)
	ledger.corrupt["rider-1"] = true
	wallet := newTestWallet(t, ledger)

	_, err := wallet.GetWallet(context.Background(), "rider-1")
	assert.ErrorIs(t, err, ErrInvalidState)
}
