// Package authctx reads the authenticated caller from a fiber request.
package authctx

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/models"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// LocalsKey is where the JWT middleware stores the parsed token.
const LocalsKey = "user"

var ErrNoToken = errors.New("invalid token in context")

// Claims returns the verified access claims of the request.
func Claims(c *fiber.Ctx) (*services.AccessClaims, error) {
	token, ok := c.Locals(LocalsKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, ErrNoToken
	}
	claims, ok := token.Claims.(*services.AccessClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, err := Claims(c)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(claims.Subject)
}

// Role returns the caller's role, or "" when the request is unauthenticated.
func Role(c *fiber.Ctx) models.Role {
	claims, err := Claims(c)
	if err != nil {
		return ""
	}
	return claims.Role
}
