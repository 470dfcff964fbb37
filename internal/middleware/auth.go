package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/foodhub/internal/config"
	"github.com/example/foodhub/internal/utils"
)

const identityContextKey = "currentIdentity"

// Identity is the authenticated caller extracted from a JWT.
type Identity struct {
	ID    uuid.UUID
	Email string
	Role  string
}

// AuthMiddleware validates bearer tokens and loads the caller identity into context.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		claims, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		subjectID, err := claims.SubjectID()
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token subject")
		}

		StoreIdentity(c, Identity{
			ID:    subjectID,
			Email: claims.Email,
			Role:  claims.Role,
		})
		return c.Next()
	}
}

// StoreIdentity places the authenticated identity into the request context.
func StoreIdentity(c *fiber.Ctx, identity Identity) {
	c.Locals(identityContextKey, identity)
}

// RequireRoles rejects callers whose role is not in the allowed set.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := GetCurrentIdentity(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		for _, role := range roles {
			if identity.Role == role {
				return c.Next()
			}
		}

		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}

// GetCurrentIdentity extracts the authenticated identity from context.
func GetCurrentIdentity(c *fiber.Ctx) (Identity, bool) {
	value := c.Locals(identityContextKey)
	if value == nil {
		return Identity{}, false
	}

	if identity, ok := value.(Identity); ok {
		return identity, true
	}

	return Identity{}, false
}
