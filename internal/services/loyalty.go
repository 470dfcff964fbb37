package services

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/foodhub/internal/models"
)

// LoyaltyService owns the two loyalty mechanics: per-restaurant coin
// balances and discount usage counting. Both run as best-effort side effects
// of order creation; their failures never fail the order.
type LoyaltyService struct {
	db           *gorm.DB
	coinsEnabled bool
}

// NewLoyaltyService constructs a LoyaltyService.
func NewLoyaltyService(db *gorm.DB, coinsEnabled bool) *LoyaltyService {
	return &LoyaltyService{db: db, coinsEnabled: coinsEnabled}
}

// CoinsEnabled reports whether the coin mechanic is switched on.
func (s *LoyaltyService) CoinsEnabled() bool {
	return s.coinsEnabled
}

// EarnedCoins computes how many coins an order total earns under a
// restaurant's settings: one coin per rate spent, nothing below the
// threshold, disabled when rate is zero.
func EarnedCoins(total, rate, threshold float64) int {
	if rate <= 0 || total < threshold {
		return 0
	}
	return int(total / rate)
}

// ApplyCoinDelta finds or creates the balance entry for the pair and applies
// the delta, clamping at zero.
func (s *LoyaltyService) ApplyCoinDelta(userID, restaurantID uuid.UUID, delta int) error {
	var balance models.CoinBalance
	err := s.db.
		Where(models.CoinBalance{UserID: userID, RestaurantID: restaurantID}).
		FirstOrCreate(&balance).Error
	if err != nil {
		return err
	}

	balance.Apply(delta)
	return s.db.Model(&models.CoinBalance{}).
		Where("id = ?", balance.ID).
		Update("coins", balance.Coins).Error
}

// AwardOrderCoins credits coins for a placed order. Best-effort: failures are
// logged and swallowed.
func (s *LoyaltyService) AwardOrderCoins(order *models.Order) {
	if !s.coinsEnabled {
		return
	}

	var restaurant models.Restaurant
	if err := s.db.First(&restaurant, "id = ?", order.RestaurantID).Error; err != nil {
		log.Printf("[Loyalty] coin award skipped for order %s: %v", order.ID, err)
		return
	}

	coins := EarnedCoins(order.Total, restaurant.CoinRate, restaurant.CoinThreshold)
	if coins == 0 {
		return
	}

	if err := s.ApplyCoinDelta(order.UserID, order.RestaurantID, coins); err != nil {
		log.Printf("[Loyalty] coin award failed for order %s: %v", order.ID, err)
	}
}

// RecordDiscountUsage increments a discount's used count exactly once per
// order. The redemption row's unique (discount_id, order_id) pair makes the
// increment idempotent; a repeated call is a no-op. Best-effort: failures are
// logged and swallowed.
func (s *LoyaltyService) RecordDiscountUsage(discountID, orderID uuid.UUID) {
	redemption := models.DiscountRedemption{DiscountID: discountID, OrderID: orderID}
	if err := s.db.Create(&redemption).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return
		}
		log.Printf("[Loyalty] failed to record redemption for order %s: %v", orderID, err)
		return
	}

	if err := s.db.Model(&models.Discount{}).
		Where("id = ?", discountID).
		Update("used_count", gorm.Expr("used_count + 1")).Error; err != nil {
		log.Printf("[Loyalty] failed to increment discount usage for order %s: %v", orderID, err)
	}
}
