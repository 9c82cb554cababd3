package models

import (
	"time"
)

// Account represents one end user's ledger entry
type Account struct {
	UserID       int64     `db:"user_id"`
	Username     string    `db:"username"`
	FirstName    string    `db:"first_name"`
	Balance      int64     `db:"balance"`
	ReferrerID   *int64    `db:"referrer_id"`
	InvitedCount int       `db:"invited_count"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Profile is the presentation view of an account
type Profile struct {
	UserID       int64
	Username     string
	FirstName    string
	Balance      int64
	InvitedCount int
}
