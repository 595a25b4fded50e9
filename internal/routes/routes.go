package routes

import (
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/authz"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Health      *handlers.HealthHandler
	Movies      *handlers.MovieHandler
	Integration *handlers.IntegrationHandler
	Statistics  *handlers.StatisticsHandler
}

// RateLimits are per-IP requests per minute. Zero disables a limiter.
type RateLimits struct {
	API  int
	Auth int
}

var DefaultRateLimits = RateLimits{API: 120, Auth: 10}

func Setup(app *fiber.App, tokens *services.TokenService, h Handlers, limits RateLimits) {
	api := app.Group("/api")
	if limits.API > 0 {
		api.Use(perIP(limits.API))
	}

	api.Get("/health", h.Health.Check)

	// Auth: public, stricter rate limit
	auth := api.Group("/auth")
	if limits.Auth > 0 {
		auth.Use(perIP(limits.Auth))
	}
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh-token", h.Auth.Refresh)

	p := protector{router: app, jwt: middleware.JWTProtected(tokens), authorize: middleware.Authorize()}

	// Static segments are registered before /movies/:id so they win the match.
	p.handle(fiber.MethodGet, "/api/movies", h.Movies.List)
	p.handle(fiber.MethodGet, "/api/movies/search", h.Movies.Search)
	p.handle(fiber.MethodGet, "/api/movies/genre/:genre", h.Movies.ByGenre)
	p.handle(fiber.MethodGet, "/api/movies/director/:director", h.Movies.ByDirector)
	p.handle(fiber.MethodGet, "/api/movies/random", h.Movies.Random)
	p.handle(fiber.MethodGet, "/api/movies/recommendations/:genre", h.Movies.Recommendations)
	p.handle(fiber.MethodGet, "/api/movies/:id", h.Movies.Get)
	p.handle(fiber.MethodPost, "/api/movies", h.Movies.Create)
	p.handle(fiber.MethodPut, "/api/movies/:id", h.Movies.Update)
	p.handle(fiber.MethodDelete, "/api/movies/:id", h.Movies.Delete)

	p.handle(fiber.MethodGet, "/api/integration/search-external", h.Integration.SearchExternal)
	p.handle(fiber.MethodPost, "/api/integration/import/:externalId", h.Integration.Import)
	p.handle(fiber.MethodPut, "/api/integration/sync/:id", h.Integration.Sync)

	p.handle(fiber.MethodGet, "/api/statistics/total-movies", h.Statistics.TotalMovies)
	p.handle(fiber.MethodGet, "/api/statistics/genres", h.Statistics.Genres)
	p.handle(fiber.MethodGet, "/api/statistics/years-distribution", h.Statistics.YearsDistribution)
	p.handle(fiber.MethodGet, "/api/statistics/top-directors", h.Statistics.TopDirectors)
}

type protector struct {
	router    fiber.Router
	jwt       fiber.Handler
	authorize fiber.Handler
}

// handle registers a JWT-protected route. It panics at startup when authz
// has no rule for the route, since such a route would deny every caller.
func (p protector) handle(method, path string, handler fiber.Handler) {
	if _, ok := authz.MinimumRole(method, path); !ok {
		panic(fmt.Sprintf("routes: no authorization rule for %s %s", method, path))
	}
	p.router.Add(method, path, p.jwt, p.authorize, handler)
}

func perIP(perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               perMinute,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
