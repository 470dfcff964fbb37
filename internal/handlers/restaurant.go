package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/foodhub/internal/middleware"
	"github.com/example/foodhub/internal/models"
	"github.com/example/foodhub/internal/utils"
)

// RestaurantHandler manages restaurant listing and profile endpoints.
type RestaurantHandler struct {
	db *gorm.DB
}

// NewRestaurantHandler constructs RestaurantHandler.
func NewRestaurantHandler(db *gorm.DB) *RestaurantHandler {
	return &RestaurantHandler{db: db}
}

// ListRestaurants returns the public restaurant directory.
func (h *RestaurantHandler) ListRestaurants(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Restaurant{})

	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ? OR cuisine ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if country := c.Query("country"); country != "" {
		query = query.Where("country = ?", country)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var restaurants []models.Restaurant
	if err := query.Order("rating desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&restaurants).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    restaurants,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetRestaurant returns one restaurant's public profile.
func (h *RestaurantHandler) GetRestaurant(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var restaurant models.Restaurant
	if err := h.db.First(&restaurant, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "restaurant not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": restaurant})
}

type updateRestaurantRequest struct {
	Name          *string  `json:"name"`
	Phone         *string  `json:"phone"`
	Address       *string  `json:"address"`
	Cuisine       *string  `json:"cuisine"`
	Description   *string  `json:"description"`
	Image         *string  `json:"image"`
	Thumbnail     *string  `json:"thumbnail"`
	Logo          *string  `json:"logo"`
	CoinRate      *float64 `json:"coin_rate"`
	CoinThreshold *float64 `json:"coin_threshold"`
}

// UpdateProfile updates the calling restaurant's profile, including its coin
// earning settings.
func (h *RestaurantHandler) UpdateProfile(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateRestaurantRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Cuisine != nil {
		updates["cuisine"] = *req.Cuisine
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.Thumbnail != nil {
		updates["thumbnail"] = *req.Thumbnail
	}
	if req.Logo != nil {
		updates["logo"] = *req.Logo
	}
	if req.CoinRate != nil {
		if *req.CoinRate < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "coin_rate cannot be negative")
		}
		updates["coin_rate"] = *req.CoinRate
	}
	if req.CoinThreshold != nil {
		if *req.CoinThreshold < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "coin_threshold cannot be negative")
		}
		updates["coin_threshold"] = *req.CoinThreshold
	}

	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	if err := h.db.Model(&models.Restaurant{}).
		Where("id = ?", identity.ID).
		Updates(updates).Error; err != nil {
		return err
	}

	var restaurant models.Restaurant
	if err := h.db.First(&restaurant, "id = ?", identity.ID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": restaurant})
}
