package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/foodhub/internal/config"
	"github.com/example/foodhub/internal/models"
	"github.com/example/foodhub/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Cuisine  string `json:"cuisine"`
	Country  string `json:"country"`
}

// issueTokens signs an access/refresh pair and persists the refresh token.
func (h *AuthHandler) issueTokens(subjectID uuid.UUID, email, role string) (string, string, error) {
	accessToken, err := utils.GenerateToken(h.cfg.JWTSecret, subjectID, email, role, h.cfg.AccessTokenTTL)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := utils.GenerateToken(h.cfg.JWTRefreshSecret, subjectID, email, role, h.cfg.RefreshTokenTTL)
	if err != nil {
		return "", "", err
	}

	record := models.RefreshToken{
		Token:     refreshToken,
		SubjectID: subjectID,
		Role:      role,
		ExpiresAt: time.Now().Add(h.cfg.RefreshTokenTTL),
	}
	if err := h.db.Create(&record).Error; err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// RegisterUser creates a customer account.
func (h *AuthHandler) RegisterUser(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" || req.Password == "" || req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email, password and name are required")
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Phone:        req.Phone,
		Currency:     "BDT",
	}

	// The unique index on email is the source of truth; a concurrent
	// duplicate registration loses here, not in a pre-check.
	if err := h.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, "user with this email already exists")
		}
		return err
	}

	accessToken, refreshToken, err := h.issueTokens(user.ID, user.Email, models.RoleUser)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate tokens")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":       true,
		"user":          user,
		"role":          models.RoleUser,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// RegisterRestaurant creates a restaurant account.
func (h *AuthHandler) RegisterRestaurant(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" || req.Password == "" || req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email, password and name are required")
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	restaurant := models.Restaurant{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Phone:        req.Phone,
		Address:      req.Address,
		Cuisine:      req.Cuisine,
		Country:      req.Country,
		Description:  "A great place to eat.",
		Rating:       4.5,
		ETA:          "30-45 mins",
	}
	if restaurant.Cuisine == "" {
		restaurant.Cuisine = "Multi-cuisine"
	}

	if err := h.db.Create(&restaurant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, "restaurant with this email already exists")
		}
		return err
	}

	accessToken, refreshToken, err := h.issueTokens(restaurant.ID, restaurant.Email, models.RoleRestaurant)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate tokens")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":       true,
		"user":          restaurant,
		"role":          models.RoleRestaurant,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates either account type: users first, then restaurants.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err == nil {
		if !utils.CheckPassword(user.PasswordHash, req.Password) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}

		accessToken, refreshToken, err := h.issueTokens(user.ID, user.Email, models.RoleUser)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to generate tokens")
		}

		return c.JSON(fiber.Map{
			"success":       true,
			"user":          user,
			"role":          models.RoleUser,
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		})
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	var restaurant models.Restaurant
	if err := h.db.Where("email = ?", req.Email).First(&restaurant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	if !utils.CheckPassword(restaurant.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	accessToken, refreshToken, err := h.issueTokens(restaurant.ID, restaurant.Email, models.RoleRestaurant)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate tokens")
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"user":          restaurant,
		"role":          models.RoleRestaurant,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh rotates the refresh token and issues a new access token. Tokens
// must exist in storage: restarting the server does not log everyone out, but
// a logged-out token stays dead.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.RefreshToken == "" {
		return fiber.NewError(fiber.StatusBadRequest, "refresh token is required")
	}

	claims, err := utils.ParseToken(h.cfg.JWTRefreshSecret, req.RefreshToken)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid refresh token")
	}

	var record models.RefreshToken
	if err := h.db.Where("token = ?", req.RefreshToken).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusUnauthorized, "refresh token revoked")
		}
		return err
	}

	if record.ExpiresAt.Before(time.Now()) {
		return fiber.NewError(fiber.StatusUnauthorized, "refresh token expired")
	}

	subjectID, err := claims.SubjectID()
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid refresh token")
	}

	if err := h.db.Delete(&record).Error; err != nil {
		return err
	}

	accessToken, refreshToken, err := h.issueTokens(subjectID, claims.Email, claims.Role)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate tokens")
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// Logout revokes a refresh token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.RefreshToken != "" {
		h.db.Where("token = ?", req.RefreshToken).Delete(&models.RefreshToken{})
	}

	return c.JSON(fiber.Map{"success": true, "message": "logged out"})
}
