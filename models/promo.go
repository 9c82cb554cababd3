package models

import (
	"time"
)

// PromoKeyPrefix namespaces promo codes in the redemptions table so a
// promo code can never collide with a check ID.
const PromoKeyPrefix = "promo_"

// PromoCode is an administrator-issued voucher that mints new stars
// rather than transferring them from a funding account.
type PromoCode struct {
	Code            string    `db:"code"`
	Stars           int64     `db:"stars"`
	ActivationsLeft int       `db:"activations_left"`
	CreatedAt       time.Time `db:"created_at"`
}

// RedemptionKey returns the key under which claims of this promo code are
// recorded in the redemptions table.
func (p *PromoCode) RedemptionKey() string {
	return PromoRedemptionKey(p.Code)
}

// PromoRedemptionKey builds the namespaced redemption key for a promo code.
func PromoRedemptionKey(code string) string {
	return PromoKeyPrefix + code
}
