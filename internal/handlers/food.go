package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/foodhub/internal/middleware"
	"github.com/example/foodhub/internal/models"
	"github.com/example/foodhub/internal/utils"
)

// FoodHandler manages menu item endpoints.
type FoodHandler struct {
	db *gorm.DB
}

// NewFoodHandler constructs FoodHandler.
func NewFoodHandler(db *gorm.DB) *FoodHandler {
	return &FoodHandler{db: db}
}

type foodRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	IsSignature bool    `json:"is_signature"`
	Country     string  `json:"country"`
}

func (r *foodRequest) validate() error {
	if r.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	if r.Price < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "price cannot be negative")
	}
	if r.Description == "" {
		return fiber.NewError(fiber.StatusBadRequest, "description is required")
	}
	if r.Category == "" {
		return fiber.NewError(fiber.StatusBadRequest, "category is required")
	}
	return nil
}

// ListFoods returns a public, filterable menu item listing.
func (h *FoodHandler) ListFoods(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Food{})

	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ? OR category ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if c.Query("signature") == "true" {
		query = query.Where("is_signature = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var foods []models.Food
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&foods).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    foods,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetFood returns a single menu item.
func (h *FoodHandler) GetFood(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var food models.Food
	if err := h.db.First(&food, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "food not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": food})
}

// ListRestaurantMenu returns the public menu of one restaurant.
func (h *FoodHandler) ListRestaurantMenu(c *fiber.Ctx) error {
	restaurantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid restaurant id")
	}

	var foods []models.Food
	if err := h.db.Where("restaurant_id = ?", restaurantID).
		Order("created_at desc").
		Find(&foods).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": foods})
}

// CreateFood adds a menu item for the calling restaurant.
func (h *FoodHandler) CreateFood(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req foodRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	food := models.Food{
		RestaurantID: identity.ID,
		Name:         req.Name,
		Price:        req.Price,
		Description:  req.Description,
		Category:     req.Category,
		Image:        req.Image,
		IsSignature:  req.IsSignature,
		Country:      req.Country,
	}

	if err := h.db.Create(&food).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": food})
}

// UpdateFood edits a menu item the calling restaurant owns.
func (h *FoodHandler) UpdateFood(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var food models.Food
	if err := h.db.First(&food, "id = ? AND restaurant_id = ?", id, identity.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "food not found")
		}
		return err
	}

	var req foodRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	food.Name = req.Name
	food.Price = req.Price
	food.Description = req.Description
	food.Category = req.Category
	food.Image = req.Image
	food.IsSignature = req.IsSignature
	food.Country = req.Country

	if err := h.db.Save(&food).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": food})
}

// DeleteFood removes a menu item the calling restaurant owns.
func (h *FoodHandler) DeleteFood(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Delete(&models.Food{}, "id = ? AND restaurant_id = ?", id, identity.ID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "food not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "food deleted"})
}
