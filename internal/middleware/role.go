package middleware

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/authz"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// Authorize checks the caller's role against the route table in authz. It
// must be registered on the route itself so c.Route() is the final pattern.
func Authorize() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := authctx.Claims(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
		}

		if !authz.Allowed(claims.Role, c.Method(), c.Route().Path) {
			slog.Warn("access denied",
				"user_id", claims.Subject,
				"role", string(claims.Role),
				"method", c.Method(),
				"route", c.Route().Path,
			)
			return c.Status(fiber.StatusForbidden).JSON(dto.Fail("Forbidden: insufficient role"))
		}
		return c.Next()
	}
}
