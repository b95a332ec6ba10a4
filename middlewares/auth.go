package middlewares

import (
	handlers "bridebuddy.app/handlers/api"
	"bridebuddy.app/pkg/identity"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware resolves the bearer token and stores the caller in locals.
func AuthMiddleware(idp identity.IIdentityProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := idp.Verify(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":  "authentication required",
				"reason": "unauthenticated",
			})
		}
		c.Locals(handlers.LocalsUserID, caller.UserID)
		c.Locals(handlers.LocalsEmail, caller.Email)
		return c.Next()
	}
}
