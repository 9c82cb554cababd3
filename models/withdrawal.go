package models

import (
	"time"
)

// WithdrawalStatus represents the fulfillment state of a withdrawal request
type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "pending"
	WithdrawalStatusCompleted WithdrawalStatus = "completed"
	WithdrawalStatusRejected  WithdrawalStatus = "rejected"
)

// Withdrawal records a request to pay out stars. The balance debit happens
// when the request is recorded; actual payout is handled out of band.
type Withdrawal struct {
	Token     string           `db:"token"`
	UserID    int64            `db:"user_id"`
	Amount    int64            `db:"amount"`
	Status    WithdrawalStatus `db:"status"`
	CreatedAt time.Time        `db:"created_at"`
}

// WithdrawalResult is returned after a withdrawal request has been recorded
type WithdrawalResult struct {
	Token      string
	Amount     int64
	NewBalance int64
}
