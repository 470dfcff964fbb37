package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/foodhub/internal/config"
	"github.com/example/foodhub/internal/handlers"
	"github.com/example/foodhub/internal/middleware"
	"github.com/example/foodhub/internal/models"
	"github.com/example/foodhub/internal/realtime"
	"github.com/example/foodhub/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, hub *realtime.Hub) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	loyaltyService := services.NewLoyaltyService(db, cfg.CoinsEnabled)

	authHandler := handlers.NewAuthHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, hub, loyaltyService, telegramService)
	discountHandler := handlers.NewDiscountHandler(db)
	foodHandler := handlers.NewFoodHandler(db)
	restaurantHandler := handlers.NewRestaurantHandler(db)
	profileHandler := handlers.NewProfileHandler(db)
	dashboardHandler := handlers.NewDashboardHandler(db)
	uploadHandler := handlers.NewUploadHandler(cfg.UploadDir)

	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register/user", authHandler.RegisterUser)
	auth.Post("/register/restaurant", authHandler.RegisterRestaurant)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)

	// Public catalog
	restaurants := api.Group("/restaurants")
	restaurants.Get("/", restaurantHandler.ListRestaurants)
	restaurants.Get("/:id", restaurantHandler.GetRestaurant)
	restaurants.Get("/:id/menu", foodHandler.ListRestaurantMenu)

	api.Get("/foods", foodHandler.ListFoods)
	api.Get("/foods/:id", foodHandler.GetFood)

	// Public discount listings
	api.Get("/discounts/active", discountHandler.ListActiveDiscounts)
	api.Get("/discounts/restaurant/:restaurantId", discountHandler.ListRestaurantActiveDiscounts)

	// Realtime order events
	app.Use("/ws", realtime.UpgradeMiddleware(cfg))
	app.Get("/ws", hub.Handler())

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Post("/orders", middleware.RequireRoles(models.RoleUser), orderHandler.CreateOrder)
	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Patch("/orders/:id/status", middleware.RequireRoles(models.RoleRestaurant), orderHandler.UpdateStatus)
	protected.Patch("/orders/:id/payment-status", orderHandler.UpdatePaymentStatus)

	protected.Post("/discounts/validate", discountHandler.ValidateDiscount)
	protected.Post("/discounts", middleware.RequireRoles(models.RoleRestaurant), discountHandler.CreateDiscount)
	protected.Get("/discounts/restaurant", middleware.RequireRoles(models.RoleRestaurant), discountHandler.ListRestaurantDiscounts)
	protected.Put("/discounts/:id", middleware.RequireRoles(models.RoleRestaurant), discountHandler.UpdateDiscount)
	protected.Delete("/discounts/:id", middleware.RequireRoles(models.RoleRestaurant), discountHandler.DeleteDiscount)

	protected.Post("/foods", middleware.RequireRoles(models.RoleRestaurant), foodHandler.CreateFood)
	protected.Put("/foods/:id", middleware.RequireRoles(models.RoleRestaurant), foodHandler.UpdateFood)
	protected.Delete("/foods/:id", middleware.RequireRoles(models.RoleRestaurant), foodHandler.DeleteFood)

	protected.Put("/restaurants/profile", middleware.RequireRoles(models.RoleRestaurant), restaurantHandler.UpdateProfile)
	protected.Get("/dashboard", middleware.RequireRoles(models.RoleRestaurant), dashboardHandler.Stats)

	protected.Get("/users/profile", middleware.RequireRoles(models.RoleUser), profileHandler.GetProfile)
	protected.Put("/users/profile", middleware.RequireRoles(models.RoleUser), profileHandler.UpdateProfile)
	protected.Get("/users/coins", middleware.RequireRoles(models.RoleUser), profileHandler.ListCoinBalances)

	protected.Post("/uploads", uploadHandler.UploadImage)
}
