package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/foodhub/internal/middleware"
	"github.com/example/foodhub/internal/models"
)

// DashboardHandler serves restaurant dashboard aggregates.
type DashboardHandler struct {
	db *gorm.DB
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// Stats returns aggregate statistics for the calling restaurant.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var totalOrders int64
	if err := h.db.Model(&models.Order{}).
		Where("restaurant_id = ?", identity.ID).
		Count(&totalOrders).Error; err != nil {
		return err
	}

	// Revenue excludes cancelled orders.
	var revenue float64
	if err := h.db.Model(&models.Order{}).
		Where("restaurant_id = ? AND status != ?", identity.ID, models.OrderStatusCancelled).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue).Error; err != nil {
		return err
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var statusCounts []statusCount
	if err := h.db.Model(&models.Order{}).
		Where("restaurant_id = ?", identity.ID).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return err
	}

	ordersByStatus := make(map[string]int64)
	for _, sc := range statusCounts {
		ordersByStatus[sc.Status] = sc.Count
	}

	var recentOrders []models.Order
	if err := h.db.Preload("Items").
		Where("restaurant_id = ?", identity.ID).
		Order("placed_at desc").
		Limit(5).
		Find(&recentOrders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_orders":     totalOrders,
			"revenue":          revenue,
			"orders_by_status": ordersByStatus,
			"recent_orders":    recentOrders,
		},
	})
}
