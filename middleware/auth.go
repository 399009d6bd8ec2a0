package middleware

import (
	"github.com/gofiber/fiber/v2"

	"videolearn/enhancement-api/utils"
)

// UserIDKey is the locals key under which the authenticated user id is
// stored for handlers.
const UserIDKey = "userid"

// RequireUser extracts the caller identity set by the upstream session
// layer and rejects anonymous requests. Session handling itself lives
// in front of this service; handlers only need the resolved user id
// for ownership checks.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		if userID == "" {
			return utils.RespondWithError(c, fiber.StatusUnauthorized, "Authentication required", utils.CodeUnauthorized)
		}
		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user id for the request, or the
// empty string when RequireUser did not run.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(UserIDKey).(string); ok {
		return id
	}
	return ""
}
