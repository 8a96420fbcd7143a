package data

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	NullRole      = Role("")
	AdminRole     = Role("admin")
	EmployeeRole  = Role("employee")
	RiderRole     = Role("rider")
	ShopOwnerRole = Role("shopOwner")
)

func (r Role) Valid() bool {
	switch r {
	case AdminRole, EmployeeRole, RiderRole, ShopOwnerRole:
		return true
	}
	return false
}

type TransactionType string

const (
	OrderFeeTransaction = TransactionType("order_fee")
	TopUpTransaction    = TransactionType("top_up")
	RefundTransaction   = TransactionType("refund")
	PayoutTransaction   = TransactionType("payout")
)

func (t TransactionType) Valid() bool {
	switch t {
	case OrderFeeTransaction, TopUpTransaction, RefundTransaction, PayoutTransaction:
		return true
	}
	return false
}

type OrderStatus string

const (
	NullStatus       = OrderStatus("")
	InProgressStatus = OrderStatus("in_progress")
	CompletedStatus  = OrderStatus("completed")
	// CanceledStatus is a reserved value. It is accepted when reading
	// stored orders but no transition currently produces it.
	CanceledStatus = OrderStatus("canceled")
)

func (s OrderStatus) Valid() bool {
	switch s {
	case InProgressStatus, CompletedStatus, CanceledStatus:
		return true
	}
	return false
}

// Wallet is the stored ledger record for one user. Balance stays equal
// to the sum of Transactions amounts; both are only ever mutated
// together inside one database transaction.
type Wallet struct {
	UserID       string
	Balance      decimal.Decimal
	Transactions []WalletTransaction
}

type WalletTransaction struct {
	CreatedAt   time.Time
	Type        TransactionType
	Description string
	Amount      decimal.Decimal
}

type Order struct {
	CreatedAt   time.Time
	CompletedAt *time.Time
	ID          string
	UserID      string
	Description string
	Status      OrderStatus
	Fee         decimal.Decimal
}

type UserProfile struct {
	CreatedAt   time.Time
	ID          string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	Address     string
	Role        Role
}
