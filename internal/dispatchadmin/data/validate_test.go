package data

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWalletValidate(t *testing.T) {
	tests := []struct {
		name    string
		wallet  Wallet
		corrupt bool
	}{
		{
			name: "valid",
			wallet: Wallet{
				UserID:  "rider-1",
				Balance: decimal.NewFromInt(100),
				Transactions: []WalletTransaction{
					{Type: TopUpTransaction, Amount: decimal.NewFromInt(100)},
				},
			},
		},
		{
			name: "zero balance without transactions",
			wallet: Wallet{
				UserID: "rider-1",
			},
		},
		{
			name:    "empty user id",
			wallet:  Wallet{Balance: decimal.NewFromInt(10)},
			corrupt: true,
		},
		{
			name: "negative balance",
			wallet: Wallet{
				UserID:  "rider-1",
				Balance: decimal.NewFromInt(-1),
			},
			corrupt: true,
		},
		{
			name: "unknown transaction type",
			wallet: Wallet{
				UserID: "rider-1",
				Transactions: []WalletTransaction{
					{Type: TransactionType("bonus"), Amount: decimal.NewFromInt(5)},
				},
			},
			corrupt: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.wallet.Validate()
			if test.corrupt {
				assert.ErrorIs(t, err, ErrCorruptRecord)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOrderValidate(t *testing.T) {
	tests := []struct {
		name    string
		order   Order
		corrupt bool
	}{
		{
			name: "valid in progress",
			order: Order{
				ID:     "order-1",
				UserID: "rider-1",
				Status: InProgressStatus,
				Fee:    decimal.NewFromInt(30),
			},
		},
		{
			name: "canceled is accepted on read",
			order: Order{
				ID:     "order-1",
				UserID: "rider-1",
				Status: CanceledStatus,
			},
		},
		{
			name: "empty id",
			order: Order{
				UserID: "rider-1",
				Status: InProgressStatus,
			},
			corrupt: true,
		},
		{
			name: "empty payer",
			order: Order{
				ID:     "order-1",
				Status: InProgressStatus,
			},
			corrupt: true,
		},
		{
			name: "unknown status",
			order: Order{
				ID:     "order-1",
				UserID: "rider-1",
				Status: OrderStatus("archived"),
			},
			corrupt: true,
		},
		{
			name: "negative fee",
			order: Order{
				ID:     "order-1",
				UserID: "rider-1",
				Status: InProgressStatus,
				Fee:    decimal.NewFromInt(-30),
			},
			corrupt: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.order.Validate()
			if test.corrupt {
				assert.ErrorIs(t, err, ErrCorruptRecord)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile UserProfile
		corrupt bool
	}{
		{
			name:    "valid",
			profile: UserProfile{ID: "uid-1", Role: RiderRole},
		},
		{
			name:    "empty id",
			profile: UserProfile{Role: RiderRole},
			corrupt: true,
		},
		{
			name:    "unknown role",
			profile: UserProfile{ID: "uid-1", Role: Role("courier")},
			corrupt: true,
		},
		{
			name:    "null role",
			profile: UserProfile{ID: "uid-1", Role: NullRole},
			corrupt: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.profile.Validate()
			if test.corrupt {
				assert.ErrorIs(t, err, ErrCorruptRecord)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
