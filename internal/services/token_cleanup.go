package services

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/example/foodhub/internal/models"
)

// RunRefreshTokenSweeper periodically deletes expired refresh tokens so the
// table does not grow without bound. Run it in its own goroutine.
func RunRefreshTokenSweeper(db *gorm.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		result := db.Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{})
		if result.Error != nil {
			log.Printf("[Auth] refresh token sweep failed: %v", result.Error)
			continue
		}
		if result.RowsAffected > 0 {
			log.Printf("[Auth] swept %d expired refresh tokens", result.RowsAffected)
		}
	}
}
