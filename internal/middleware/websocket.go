package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade lets only websocket handshakes of identified players
// through. Must run after EnsurePlayerID.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		playerID := PlayerID(c)
		if playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "player ID is required",
			})
		}
		log.Debugf("upgrading %s for player %s", c.Path(), playerID)
		return c.Next()
	}
}
