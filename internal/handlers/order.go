package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/foodhub/internal/middleware"
	"github.com/example/foodhub/internal/models"
	"github.com/example/foodhub/internal/realtime"
	"github.com/example/foodhub/internal/services"
	"github.com/example/foodhub/internal/utils"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	db       *gorm.DB
	hub      *realtime.Hub
	loyalty  *services.LoyaltyService
	telegram *services.TelegramService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, hub *realtime.Hub, loyalty *services.LoyaltyService, telegram *services.TelegramService) *OrderHandler {
	return &OrderHandler{db: db, hub: hub, loyalty: loyalty, telegram: telegram}
}

type orderItemRef struct {
	ID string `json:"id"`
}

type orderItemRequest struct {
	MenuItemID string        `json:"menu_item_id"`
	MenuItem   *orderItemRef `json:"menu_item"`
	Name       string        `json:"name"`
	Price      float64       `json:"price"`
	Quantity   int           `json:"quantity"`
	IsRedeemed bool          `json:"is_redeemed"`
}

type orderDiscountRequest struct {
	ID     string  `json:"id"`
	Code   string  `json:"code"`
	Amount float64 `json:"amount"`
}

type createOrderRequest struct {
	RestaurantID    string                `json:"restaurant_id"`
	RestaurantName  string                `json:"restaurant_name"`
	Items           []orderItemRequest    `json:"items"`
	Total           float64               `json:"total"`
	DeliveryAddress string                `json:"delivery_address"`
	PaymentMethod   string                `json:"payment_method"`
	Notes           string                `json:"notes"`
	CustomerName    string                `json:"customer_name"`
	CustomerPhone   string                `json:"customer_phone"`
	Discount        *orderDiscountRequest `json:"discount"`
}

// buildOrderItems turns request lines into fully-populated typed items,
// coalescing the flat menu item id with the nested reference.
func buildOrderItems(items []orderItemRequest) ([]models.OrderItem, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("order must contain at least one item")
	}

	built := make([]models.OrderItem, 0, len(items))
	for i, item := range items {
		if item.Name == "" {
			return nil, fmt.Errorf("item %d is missing a name", i)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item %d quantity must be positive", i)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("item %d price cannot be negative", i)
		}

		ref := item.MenuItemID
		if ref == "" && item.MenuItem != nil {
			ref = item.MenuItem.ID
		}

		line := models.OrderItem{
			Name:       item.Name,
			UnitPrice:  item.Price,
			Quantity:   item.Quantity,
			IsRedeemed: item.IsRedeemed,
		}
		if ref != "" {
			if id, err := uuid.Parse(ref); err == nil {
				line.FoodID = &id
			}
		}

		built = append(built, line)
	}

	return built, nil
}

// CreateOrder lets an authenticated user place an order.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	restaurantID, err := uuid.Parse(req.RestaurantID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "restaurant id is required")
	}
	if req.Total < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "total cannot be negative")
	}
	if req.DeliveryAddress == "" {
		return fiber.NewError(fiber.StatusBadRequest, "delivery address is required")
	}

	items, err := buildOrderItems(req.Items)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	restaurantName := req.RestaurantName
	if restaurantName == "" {
		var restaurant models.Restaurant
		if err := h.db.First(&restaurant, "id = ?", restaurantID).Error; err == nil {
			restaurantName = restaurant.Name
		} else {
			restaurantName = "Unknown"
		}
	}

	customerName := req.CustomerName
	if customerName == "" {
		var user models.User
		if err := h.db.First(&user, "id = ?", identity.ID).Error; err == nil {
			customerName = user.Name
		}
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodCOD
	}

	order := models.Order{
		UserID:          identity.ID,
		RestaurantID:    restaurantID,
		RestaurantName:  restaurantName,
		CustomerName:    customerName,
		CustomerEmail:   identity.Email,
		CustomerPhone:   req.CustomerPhone,
		Items:           items,
		Total:           req.Total,
		Status:          models.OrderStatusPending,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
		PlacedAt:        time.Now(),
	}

	if req.Discount != nil {
		order.DiscountCode = req.Discount.Code
		order.DiscountAmount = req.Discount.Amount
		if id, err := uuid.Parse(req.Discount.ID); err == nil {
			order.DiscountID = &id
		}
	}

	if err := h.db.Create(&order).Error; err != nil {
		return err
	}

	// Loyalty writes and notifications are best-effort: the order already
	// succeeded and stays succeeded.
	if order.DiscountID != nil {
		h.loyalty.RecordDiscountUsage(*order.DiscountID, order.ID)
	}
	h.loyalty.AwardOrderCoins(&order)

	h.hub.BroadcastOrderEvent(realtime.EventOrderCreated, &order)
	go h.notifyNewOrder(order)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}

func (h *OrderHandler) notifyNewOrder(order models.Order) {
	if h.telegram == nil {
		return
	}

	items := make([]services.OrderItemNotification, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, services.OrderItemNotification{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.UnitPrice,
		})
	}

	notification := services.OrderNotification{
		OrderID:         order.ID.String(),
		RestaurantName:  order.RestaurantName,
		Items:           items,
		Total:           order.Total,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		DeliveryAddress: order.DeliveryAddress,
		PaymentMethod:   order.PaymentMethod,
	}

	if err := h.telegram.NotifyNewOrder(notification); err != nil {
		log.Printf("[Order] Telegram notification failed for %s: %v", order.ID, err)
	}
}

// ListOrders returns orders scoped to the caller: users see their own,
// restaurants see orders placed with them.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	query := h.db.Model(&models.Order{})
	switch identity.Role {
	case models.RoleUser:
		query = query.Where("user_id = ?", identity.ID)
	case models.RoleRestaurant:
		query = query.Where("restaurant_id = ?", identity.ID)
	default:
		return fiber.NewError(fiber.StatusForbidden, "unauthorized role")
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	pg := utils.ParsePagination(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("placed_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order to its placing user or owning restaurant.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if !canAccessOrder(identity, &order) {
		return fiber.NewError(fiber.StatusForbidden, "not authorized to view this order")
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

func canAccessOrder(identity middleware.Identity, order *models.Order) bool {
	switch identity.Role {
	case models.RoleUser:
		return order.UserID == identity.ID
	case models.RoleRestaurant:
		return order.RestaurantID == identity.ID
	}
	return false
}

type updateStatusRequest struct {
	Status             string `json:"status"`
	CancellationReason string `json:"cancellation_reason"`
}

// UpdateStatus advances an order along the state machine. Only the owning
// restaurant may call it; illegal edges and lost races return 409.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if !models.IsValidOrderStatus(req.Status) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid status")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if order.RestaurantID != identity.ID {
		return fiber.NewError(fiber.StatusForbidden, "not authorized to update this order")
	}

	if err := h.advanceOrderStatus(&order, req.Status, req.CancellationReason); err != nil {
		return err
	}

	if err := h.db.Preload("Items").First(&order, "id = ?", order.ID).Error; err != nil {
		return err
	}

	h.hub.BroadcastOrderEvent(realtime.EventOrderUpdated, &order)
	if order.Status == models.OrderStatusOutForDelivery || order.Status == models.OrderStatusDelivered {
		h.hub.BroadcastOrderEvent(realtime.EventDeliveryTracking, &order)
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// advanceOrderStatus moves an order along the state machine. The update is a
// compare-and-swap on the previous status so two concurrent updates cannot
// both win; the loser gets a conflict.
func (h *OrderHandler) advanceOrderStatus(order *models.Order, to, cancellationReason string) error {
	if !models.CanTransition(order.Status, to) {
		return fiber.NewError(fiber.StatusConflict,
			fmt.Sprintf("cannot transition order from %s to %s", order.Status, to))
	}

	updates := map[string]interface{}{"status": to}
	if to == models.OrderStatusCancelled && cancellationReason != "" {
		updates["cancellation_reason"] = cancellationReason
	}

	result := h.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusConflict, "order status changed concurrently")
	}

	return nil
}

type updatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
}

// UpdatePaymentStatus sets payment status. The placing user or the owning
// restaurant may call it; no ordering constraint against order status.
func (h *OrderHandler) UpdatePaymentStatus(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updatePaymentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if !models.IsValidPaymentStatus(req.PaymentStatus) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payment status")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if !canAccessOrder(identity, &order) {
		return fiber.NewError(fiber.StatusForbidden, "not authorized to update this order")
	}

	if err := h.db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("payment_status", req.PaymentStatus).Error; err != nil {
		return err
	}
	order.PaymentStatus = req.PaymentStatus

	return c.JSON(fiber.Map{"success": true, "data": order})
}
