package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/config"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/models"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokens(t *testing.T, issuer string) *services.TokenService {
	t.Helper()
	tokens, err := services.NewTokenService(&config.Config{
		JWTSecret:        "0123456789abcdef0123456789abcdef",
		JWTIssuer:        issuer,
		JWTAudience:      "MovieManagerUsers",
		JWTAccessExpiry:  time.Hour,
		JWTRefreshExpiry: time.Hour,
	})
	require.NoError(t, err)
	return tokens
}

func newApp(tokens *services.TokenService) *fiber.App {
	app := fiber.New()
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	protected := []fiber.Handler{JWTProtected(tokens), Authorize()}
	app.Get("/api/movies", append(protected, ok)...)
	app.Put("/api/movies/:id", append(protected, ok)...)
	app.Delete("/api/movies/:id", append(protected, ok)...)
	app.Get("/api/unlisted", append(protected, ok)...)
	return app
}

func bearer(t *testing.T, tokens *services.TokenService, role models.Role) string {
	t.Helper()
	raw, _, err := tokens.GenerateAccessToken(&models.User{ID: uuid.New(), Email: "a@example.com", Role: role})
	require.NoError(t, err)
	return "Bearer " + raw
}

func status(t *testing.T, app *fiber.App, method, path, auth string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestJWTProtected(t *testing.T) {
	tokens := newTokens(t, "MovieManager")
	app := newApp(tokens)

	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "GET", "/api/movies", ""))
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "GET", "/api/movies", "Bearer garbage"))

	foreign := newTokens(t, "SomeoneElse")
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "GET", "/api/movies", bearer(t, foreign, models.RoleAdmin)))

	assert.Equal(t, fiber.StatusOK, status(t, app, "GET", "/api/movies", bearer(t, tokens, models.RoleUser)))

	forever := jwt.NewWithClaims(jwt.SigningMethodHS256, &services.AccessClaims{
		Role: models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  uuid.NewString(),
			Issuer:   "MovieManager",
			Audience: jwt.ClaimStrings{"MovieManagerUsers"},
		},
	})
	raw, err := forever.SignedString([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "GET", "/api/movies", "Bearer "+raw))
}

func TestAuthorize(t *testing.T) {
	tokens := newTokens(t, "MovieManager")
	app := newApp(tokens)
	id := "/api/movies/" + uuid.NewString()

	user := bearer(t, tokens, models.RoleUser)
	editor := bearer(t, tokens, models.RoleEditor)
	admin := bearer(t, tokens, models.RoleAdmin)

	assert.Equal(t, fiber.StatusForbidden, status(t, app, "PUT", id, user))
	assert.Equal(t, fiber.StatusOK, status(t, app, "PUT", id, editor))
	assert.Equal(t, fiber.StatusForbidden, status(t, app, "DELETE", id, editor))
	assert.Equal(t, fiber.StatusOK, status(t, app, "DELETE", id, admin))
	assert.Equal(t, fiber.StatusForbidden, status(t, app, "GET", "/api/unlisted", admin))
}
