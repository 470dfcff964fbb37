package models

import "github.com/google/uuid"

// Food is a single menu item listed by a restaurant.
type Food struct {
	BaseModel
	RestaurantID uuid.UUID `gorm:"type:uuid;index" json:"restaurant_id"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Image        string    `json:"image"`
	IsSignature  bool      `json:"is_signature"`
	Country      string    `json:"country"`
}
