package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken persists issued refresh tokens so sessions survive restarts.
// Expired rows are removed by the periodic sweeper.
type RefreshToken struct {
	BaseModel
	Token     string    `gorm:"uniqueIndex" json:"-"`
	SubjectID uuid.UUID `gorm:"type:uuid;index" json:"subject_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}
