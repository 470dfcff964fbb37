package handlers

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/example/foodhub/internal/middleware"
	"github.com/example/foodhub/internal/models"
	"github.com/example/foodhub/internal/realtime"
)

func newHandlerTestDB(t *testing.T, migrations ...interface{}) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(migrations...))
	return db
}

func withIdentity(identity middleware.Identity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		middleware.StoreIdentity(c, identity)
		return c.Next()
	}
}

func newStatusTestApp(db *gorm.DB, identity middleware.Identity) *fiber.App {
	handler := NewOrderHandler(db, realtime.NewHub(), nil, nil)
	app := fiber.New()
	app.Patch("/orders/:id/status", withIdentity(identity), handler.UpdateStatus)
	return app
}

func seedOrder(t *testing.T, db *gorm.DB, restaurantID uuid.UUID, status string) models.Order {
	order := models.Order{
		UserID:          uuid.New(),
		RestaurantID:    restaurantID,
		RestaurantName:  "Test Kitchen",
		Total:           300,
		Status:          status,
		PaymentMethod:   models.PaymentMethodCOD,
		PaymentStatus:   models.PaymentStatusPending,
		DeliveryAddress: "12 Lake Road",
		PlacedAt:        time.Now(),
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func patchStatus(t *testing.T, app *fiber.App, orderID uuid.UUID, status string) int {
	body := fmt.Sprintf(`{"status":%q}`, status)
	req := httptest.NewRequest(fiber.MethodPatch, "/orders/"+orderID.String()+"/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestUpdateStatus_OtherRestaurantForbidden(t *testing.T) {
	db := newHandlerTestDB(t, &models.Order{}, &models.OrderItem{})
	owner := uuid.New()
	order := seedOrder(t, db, owner, models.OrderStatusPending)

	app := newStatusTestApp(db, middleware.Identity{ID: uuid.New(), Role: models.RoleRestaurant})
	assert.Equal(t, fiber.StatusForbidden, patchStatus(t, app, order.ID, models.OrderStatusPreparing))

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, reloaded.Status)
}

func TestUpdateStatus_RepeatedAdvanceSingleWinner(t *testing.T) {
	db := newHandlerTestDB(t, &models.Order{}, &models.OrderItem{})
	owner := uuid.New()
	order := seedOrder(t, db, owner, models.OrderStatusPending)

	app := newStatusTestApp(db, middleware.Identity{ID: owner, Role: models.RoleRestaurant})
	assert.Equal(t, fiber.StatusOK, patchStatus(t, app, order.ID, models.OrderStatusPreparing))
	assert.Equal(t, fiber.StatusConflict, patchStatus(t, app, order.ID, models.OrderStatusPreparing))

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderStatusPreparing, reloaded.Status)
}

func TestAdvanceOrderStatus_StatusChangedUnderneath(t *testing.T) {
	db := newHandlerTestDB(t, &models.Order{}, &models.OrderItem{})
	owner := uuid.New()
	order := seedOrder(t, db, owner, models.OrderStatusPending)
	handler := NewOrderHandler(db, realtime.NewHub(), nil, nil)

	// Another update lands between the load and the swap.
	stale := order
	require.NoError(t, db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("status", models.OrderStatusCancelled).Error)

	err := handler.advanceOrderStatus(&stale, models.OrderStatusPreparing, "")
	var fiberErr *fiber.Error
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusConflict, fiberErr.Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, reloaded.Status)
}
