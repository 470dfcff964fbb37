package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Discount kinds.
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFlat       = "flat"
)

// Discount validation errors, mapped to HTTP responses by the handlers.
var (
	ErrDiscountInvalid           = errors.New("invalid or expired discount code")
	ErrDiscountMinimumNotMet     = errors.New("order total is below the minimum for this code")
	ErrDiscountUsageLimitReached = errors.New("discount code usage limit reached")
)

// Discount is a restaurant-issued promo code. Codes are stored upper-cased
// and are unique per restaurant.
type Discount struct {
	BaseModel
	RestaurantID uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_discounts_restaurant_code" json:"restaurant_id"`
	Code         string     `gorm:"uniqueIndex:idx_discounts_restaurant_code" json:"code"`
	Type         string     `json:"type"`
	Value        float64    `json:"value"`
	Description  string     `json:"description"`
	MinOrder     float64    `json:"min_order"`
	ValidFrom    time.Time  `json:"valid_from"`
	ValidUntil   time.Time  `json:"valid_until"`
	UsageLimit   *int       `json:"usage_limit"` // nil means unlimited
	UsedCount    int        `json:"used_count"`
	IsActive     bool       `json:"is_active"`
}

// IsRedeemableAt reports whether the code is active and inside its validity
// window at the given instant.
func (d *Discount) IsRedeemableAt(now time.Time) bool {
	return d.IsActive && !now.Before(d.ValidFrom) && !now.After(d.ValidUntil)
}

// Validate checks every redeemability rule against an order total.
func (d *Discount) Validate(total float64, now time.Time) error {
	if !d.IsRedeemableAt(now) {
		return ErrDiscountInvalid
	}
	if total < d.MinOrder {
		return ErrDiscountMinimumNotMet
	}
	if d.UsageLimit != nil && d.UsedCount >= *d.UsageLimit {
		return ErrDiscountUsageLimitReached
	}
	return nil
}

// AmountFor computes the reduction this code grants on the given total.
func (d *Discount) AmountFor(total float64) float64 {
	if d.Type == DiscountTypePercentage {
		return total * d.Value / 100
	}
	return d.Value
}

// DiscountRedemption records that an order consumed a discount. The unique
// (discount_id, order_id) pair keeps the usage counter from double-counting
// when the best-effort increment is retried.
type DiscountRedemption struct {
	BaseModel
	DiscountID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_redemptions_discount_order" json:"discount_id"`
	OrderID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_redemptions_discount_order" json:"order_id"`
}
