package realtime

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/example/foodhub/internal/config"
	"github.com/example/foodhub/internal/utils"
)

// clientMessage is what connected clients send to manage room subscriptions.
type clientMessage struct {
	Action  string `json:"action"`
	OrderID string `json:"order_id"`
}

// UpgradeMiddleware authenticates the websocket handshake. The token comes in
// the `token` query param since browsers cannot set headers on upgrade
// requests.
func UpgradeMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		claims, err := utils.ParseToken(cfg.JWTSecret, c.Query("token"))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		subjectID, err := claims.SubjectID()
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token subject")
		}

		c.Locals("subjectID", subjectID)
		c.Locals("role", claims.Role)
		return c.Next()
	}
}

// Handler returns the websocket connection loop bound to the hub.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		subjectID, ok := conn.Locals("subjectID").(uuid.UUID)
		if !ok {
			conn.Close()
			return
		}
		role, _ := conn.Locals("role").(string)

		h.Register(conn, subjectID, role)
		defer func() {
			h.Unregister(conn)
			conn.Close()
		}()

		for {
			var msg clientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}

			orderID, err := uuid.Parse(msg.OrderID)
			if err != nil {
				continue
			}

			switch msg.Action {
			case "join:order":
				h.JoinOrder(conn, orderID)
			case "leave:order":
				h.LeaveOrder(conn, orderID)
			default:
				log.Printf("[Realtime] unknown action %q from %s", msg.Action, subjectID)
			}
		}
	})
}
