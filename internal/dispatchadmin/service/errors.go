package service

import "errors"

var (
	ErrWalletNotFound = errors.New("wallet not found for this user")
	ErrOrderNotFound  = errors.New("order not found")
	ErrUserNotFound   = errors.New("user not found")
	// ErrInsufficientFunds is the advisory pre-check failure at order
	// creation; ErrInsufficientBalance aborts a debit transaction.
	ErrInsufficientFunds   = errors.New("insufficient balance to accept this order")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidTransition   = errors.New("invalid order status transition")
	// ErrInvalidState means a stored record failed validation; it is
	// store corruption, not a user error.
	ErrInvalidState  = errors.New("stored record is in an invalid state")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation failed")
)
