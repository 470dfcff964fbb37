package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/foodhub/internal/middleware"
	"github.com/example/foodhub/internal/models"
)

// DiscountHandler manages promo code endpoints.
type DiscountHandler struct {
	db *gorm.DB
}

// NewDiscountHandler constructs DiscountHandler.
func NewDiscountHandler(db *gorm.DB) *DiscountHandler {
	return &DiscountHandler{db: db}
}

type discountRequest struct {
	Code        string    `json:"code"`
	Type        string    `json:"type"`
	Value       float64   `json:"value"`
	Description string    `json:"description"`
	MinOrder    float64   `json:"min_order"`
	ValidFrom   time.Time `json:"valid_from"`
	ValidUntil  time.Time `json:"valid_until"`
	UsageLimit  *int      `json:"usage_limit"`
	IsActive    *bool     `json:"is_active"`
}

func (r *discountRequest) validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return fmt.Errorf("code is required")
	}
	if r.Type != models.DiscountTypePercentage && r.Type != models.DiscountTypeFlat {
		return fmt.Errorf("type must be percentage or flat")
	}
	if r.Value <= 0 {
		return fmt.Errorf("value must be positive")
	}
	if r.Description == "" {
		return fmt.Errorf("description is required")
	}
	if r.ValidFrom.IsZero() || r.ValidUntil.IsZero() {
		return fmt.Errorf("validity window is required")
	}
	if r.ValidUntil.Before(r.ValidFrom) {
		return fmt.Errorf("valid_until must be after valid_from")
	}
	return nil
}

// CreateDiscount lets a restaurant issue a new promo code.
func (h *DiscountHandler) CreateDiscount(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req discountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	discount := models.Discount{
		RestaurantID: identity.ID,
		Code:         strings.ToUpper(strings.TrimSpace(req.Code)),
		Type:         req.Type,
		Value:        req.Value,
		Description:  req.Description,
		MinOrder:     req.MinOrder,
		ValidFrom:    req.ValidFrom,
		ValidUntil:   req.ValidUntil,
		UsageLimit:   req.UsageLimit,
		IsActive:     true,
	}
	if req.IsActive != nil {
		discount.IsActive = *req.IsActive
	}

	if err := h.db.Create(&discount).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, "discount code already exists for this restaurant")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": discount})
}

// ListRestaurantDiscounts returns every discount the calling restaurant owns.
func (h *DiscountHandler) ListRestaurantDiscounts(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var discounts []models.Discount
	if err := h.db.Where("restaurant_id = ?", identity.ID).
		Order("created_at desc").
		Find(&discounts).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": discounts})
}

// ListActiveDiscounts returns all currently redeemable discounts platform-wide.
func (h *DiscountHandler) ListActiveDiscounts(c *fiber.Ctx) error {
	now := time.Now()
	var discounts []models.Discount
	if err := h.db.
		Where("is_active = ? AND valid_from <= ? AND valid_until >= ?", true, now, now).
		Order("created_at desc").
		Find(&discounts).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": discounts})
}

// ListRestaurantActiveDiscounts returns redeemable discounts for one restaurant.
func (h *DiscountHandler) ListRestaurantActiveDiscounts(c *fiber.Ctx) error {
	restaurantID, err := uuid.Parse(c.Params("restaurantId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid restaurant id")
	}

	now := time.Now()
	var discounts []models.Discount
	if err := h.db.
		Where("restaurant_id = ? AND is_active = ? AND valid_from <= ? AND valid_until >= ?",
			restaurantID, true, now, now).
		Order("value desc").
		Find(&discounts).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": discounts})
}

// UpdateDiscount edits a discount the calling restaurant owns.
func (h *DiscountHandler) UpdateDiscount(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var discount models.Discount
	if err := h.db.First(&discount, "id = ? AND restaurant_id = ?", id, identity.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "discount not found")
		}
		return err
	}

	var req discountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	discount.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	discount.Type = req.Type
	discount.Value = req.Value
	discount.Description = req.Description
	discount.MinOrder = req.MinOrder
	discount.ValidFrom = req.ValidFrom
	discount.ValidUntil = req.ValidUntil
	discount.UsageLimit = req.UsageLimit
	if req.IsActive != nil {
		discount.IsActive = *req.IsActive
	}

	if err := h.db.Save(&discount).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, "discount code already exists for this restaurant")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": discount})
}

// DeleteDiscount removes a discount the calling restaurant owns.
func (h *DiscountHandler) DeleteDiscount(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Delete(&models.Discount{}, "id = ? AND restaurant_id = ?", id, identity.ID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "discount not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "discount deleted"})
}

type validateDiscountRequest struct {
	Code         string  `json:"code"`
	RestaurantID string  `json:"restaurant_id"`
	Total        float64 `json:"total"`
}

// ValidateDiscount checks a promo code against an order total and returns the
// computed reduction.
func (h *DiscountHandler) ValidateDiscount(c *fiber.Ctx) error {
	var req validateDiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Code == "" || req.RestaurantID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "promo code and restaurant id are required")
	}

	restaurantID, err := uuid.Parse(req.RestaurantID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid restaurant id")
	}

	var discount models.Discount
	err = h.db.First(&discount, "code = ? AND restaurant_id = ?",
		strings.ToUpper(strings.TrimSpace(req.Code)), restaurantID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusBadRequest, models.ErrDiscountInvalid.Error())
		}
		return err
	}

	if err := discount.Validate(req.Total, time.Now()); err != nil {
		if errors.Is(err, models.ErrDiscountMinimumNotMet) {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("minimum order value for this code is %g", discount.MinOrder))
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"discount_id": discount.ID,
			"code":        discount.Code,
			"type":        discount.Type,
			"value":       discount.Value,
			"amount":      discount.AmountFor(req.Total),
		},
	})
}
