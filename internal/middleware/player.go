package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// PlayerIDKey is the Locals key holding the caller's player id. Websocket
// handlers read it from the upgraded connection's locals.
const PlayerIDKey = "playerID"

const (
	playerIDHeader = "X-Player-ID"
	playerIDQuery  = "playerId"
)

// EnsurePlayerID takes the player id from the X-Player-ID header or the
// playerId query parameter. Browsers cannot set headers on websocket
// upgrades, hence the query fallback.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if PlayerID(c) != "" {
			return c.Next()
		}

		playerID := c.Get(playerIDHeader)
		if playerID == "" {
			playerID = c.Query(playerIDQuery)
		}
		if playerID == "" {
			log.Debugf("rejected %s %s without player id", c.Method(), c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		c.Locals(PlayerIDKey, playerID)
		return c.Next()
	}
}

// PlayerID returns the id stored by EnsurePlayerID, or "".
func PlayerID(c *fiber.Ctx) string {
	id, _ := c.Locals(PlayerIDKey).(string)
	return id
}
