package models

import "github.com/google/uuid"

// Account roles carried in JWT claims.
const (
	RoleUser       = "user"
	RoleRestaurant = "restaurant"
)

// User represents a customer account.
type User struct {
	BaseModel
	Email        string        `gorm:"uniqueIndex" json:"email"`
	PasswordHash string        `json:"-"`
	Name         string        `json:"name"`
	Phone        string        `json:"phone"`
	ProfileImage string        `json:"profile_image"`
	Currency     string        `json:"currency"`
	CoinBalances []CoinBalance `json:"coin_balances,omitempty"`
}

// CoinBalance is a per-user, per-restaurant loyalty counter. Never negative.
type CoinBalance struct {
	BaseModel
	UserID       uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_coins_user_restaurant" json:"user_id"`
	RestaurantID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_coins_user_restaurant" json:"restaurant_id"`
	Coins        int       `json:"coins"`
}

// Apply adds delta to the balance, clamping at zero.
func (b *CoinBalance) Apply(delta int) {
	b.Coins += delta
	if b.Coins < 0 {
		b.Coins = 0
	}
}
