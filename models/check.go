package models

import (
	"time"
)

// Check is a creator-funded voucher with a fixed payout per activation.
// Knowledge of the check ID is the only credential needed to claim it.
type Check struct {
	CheckID            string    `db:"check_id"`
	CreatorID          int64     `db:"creator_id"`
	TotalStars         int64     `db:"total_stars"`
	StarsPerActivation int64     `db:"stars_per_activation"`
	ActivationsLeft    int       `db:"activations_left"`
	CreatedAt          time.Time `db:"created_at"`
}

// CheckCreateResult is returned after a check has been created and funded
type CheckCreateResult struct {
	CheckID            string
	TotalStars         int64
	StarsPerActivation int64
	// Activations may differ from what the creator asked for when the
	// total rounds below one star per activation
	Activations int
	NewBalance  int64
}

// ClaimResult is returned after a successful check or promo claim
type ClaimResult struct {
	StarsAwarded    int64
	ActivationsLeft int
	NewBalance      int64
}
