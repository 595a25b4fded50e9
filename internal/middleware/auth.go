package middleware

import (
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/services"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected verifies the bearer access token and stores it under
// authctx.LocalsKey.
func JWTProtected(tokens *services.TokenService) fiber.Handler {
	return jwtware.New(jwtware.Config{
		KeyFunc:    tokens.Keyfunc(),
		Claims:     &services.AccessClaims{},
		ContextKey: authctx.LocalsKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized: invalid or expired token"))
		},
	})
}
