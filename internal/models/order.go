package models

import (
	"time"

	"github.com/google/uuid"
)

// Order status values. Delivered and cancelled are terminal.
const (
	OrderStatusPending        = "pending"
	OrderStatusPreparing      = "preparing"
	OrderStatusReady          = "ready"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// Payment methods accepted at checkout.
const (
	PaymentMethodCOD   = "cod"
	PaymentMethodCard  = "card"
	PaymentMethodBkash = "bkash"
	PaymentMethodNagad = "nagad"
)

// Payment status values.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// allowedTransitions encodes the order state machine. The ready step is
// optional: preparing may go straight to out_for_delivery.
var allowedTransitions = map[string]map[string]bool{
	OrderStatusPending: {
		OrderStatusPreparing: true,
		OrderStatusCancelled: true,
	},
	OrderStatusPreparing: {
		OrderStatusReady:          true,
		OrderStatusOutForDelivery: true,
		OrderStatusCancelled:      true,
	},
	OrderStatusReady: {
		OrderStatusOutForDelivery: true,
		OrderStatusCancelled:      true,
	},
	OrderStatusOutForDelivery: {
		OrderStatusDelivered: true,
		OrderStatusCancelled: true,
	},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// IsValidOrderStatus reports whether s is a member of the status enum.
func IsValidOrderStatus(s string) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsValidPaymentStatus reports whether s is a known payment status.
func IsValidPaymentStatus(s string) bool {
	return s == PaymentStatusPending || s == PaymentStatusPaid || s == PaymentStatusFailed
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

// IsTerminalStatus reports whether no further transitions exist from s.
func IsTerminalStatus(s string) bool {
	next, ok := allowedTransitions[s]
	return ok && len(next) == 0
}

// Order is a single checkout transaction between one user and one restaurant.
// Items and total are immutable after creation; only status, payment status
// and the cancellation reason change afterwards.
type Order struct {
	BaseModel
	UserID             uuid.UUID   `gorm:"type:uuid;index" json:"user_id"`
	RestaurantID       uuid.UUID   `gorm:"type:uuid;index:idx_orders_restaurant_status" json:"restaurant_id"`
	RestaurantName     string      `json:"restaurant_name"`
	CustomerName       string      `json:"customer_name"`
	CustomerEmail      string      `json:"customer_email"`
	CustomerPhone      string      `json:"customer_phone"`
	Items              []OrderItem `json:"items,omitempty"`
	Total              float64     `json:"total"`
	Status             string      `gorm:"index:idx_orders_restaurant_status" json:"status"`
	PaymentMethod      string      `json:"payment_method"`
	PaymentStatus      string      `json:"payment_status"`
	DeliveryAddress    string      `json:"delivery_address"`
	Notes              string      `json:"notes"`
	CancellationReason string      `json:"cancellation_reason,omitempty"`
	DiscountCode       string      `json:"discount_code,omitempty"`
	DiscountAmount     float64     `json:"discount_amount,omitempty"`
	DiscountID         *uuid.UUID  `gorm:"type:uuid" json:"discount_id,omitempty"`
	PlacedAt           time.Time   `json:"placed_at"`
}

// OrderItem is one menu line within an order.
type OrderItem struct {
	BaseModel
	OrderID    uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	FoodID     *uuid.UUID `gorm:"type:uuid" json:"food_id"`
	Name       string     `json:"name"`
	UnitPrice  float64    `json:"unit_price"`
	Quantity   int        `json:"quantity"`
	IsRedeemed bool       `json:"is_redeemed"`
}
