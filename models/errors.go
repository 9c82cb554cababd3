package models

import (
	"errors"
)

// Domain errors returned by the ledger services. Callers classify them with
// errors.Is; services may wrap them with additional context.
var (
	// ErrNotFound indicates the referenced account, check or promo code does not exist
	ErrNotFound = errors.New("not found")

	// ErrInsufficientFunds indicates a debit would drive the balance negative
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrExhausted indicates the voucher has no activations left
	ErrExhausted = errors.New("no activations left")

	// ErrAlreadyRedeemed indicates the caller already claimed this voucher
	ErrAlreadyRedeemed = errors.New("already redeemed")

	// ErrAlreadyExists indicates a duplicate promo code
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidAmount indicates a non-positive amount or activation count
	ErrInvalidAmount = errors.New("invalid amount")
)
