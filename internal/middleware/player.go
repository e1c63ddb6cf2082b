package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// MaxPlayerIDLength bounds the ids clients may choose for themselves.
const MaxPlayerIDLength = 64

// ValidPlayerID accepts 1 to MaxPlayerIDLength ASCII letters, digits,
// '-' or '_'. Generated UUIDs qualify.
func ValidPlayerID(id string) bool {
	if len(id) == 0 || len(id) > MaxPlayerIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		switch c := id[i]; {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

// EnsurePlayerID reads the caller's player id from the X-Player-ID header or
// the playerId query parameter and stores it in the "playerID" local.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Check if playerID is already set
		if c.Locals("playerID") != nil {
			return c.Next()
		}

		// Check header first
		playerID := c.Get("X-Player-ID")
		if playerID == "" {
			playerID = c.Query("playerId")
		}

		if playerID == "" {
			log.Debugf("rejected %s %s: no player id", c.Method(), c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}
		if !ValidPlayerID(playerID) {
			log.Debugf("rejected %s %s: malformed player id", c.Method(), c.Path())
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Player ID must be 1-64 letters, digits, '-' or '_'.",
			})
		}

		// Store in context for this request. fiber reuses the header buffer
		// after the handler returns, so keep a copy.
		c.Locals("playerID", string([]byte(playerID)))
		return c.Next()
	}
}
