package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/cache"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/config"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/database/dbtest"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/events"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/models"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/repository"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

type stubProvider struct{}

func (stubProvider) SearchByTitle(context.Context, string) ([]dto.ExternalMovie, error) {
	return []dto.ExternalMovie{{ExternalID: "tt0113277", Title: "Heat", Year: "1995", Type: "movie"}}, nil
}

func (stubProvider) GetByExternalID(_ context.Context, id string) (*models.Movie, error) {
	if id != "tt0113277" {
		return nil, errors.New("not found")
	}
	return &models.Movie{
		ExternalID: id,
		Title:      "Heat",
		Year:       1995,
		Genres:     datatypes.JSONSlice[string]{"Crime", "Drama"},
		Director:   "Michael Mann",
		Rating:     8.3,
	}, nil
}

type testServer struct {
	app  *fiber.App
	seed *services.SeedService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := dbtest.New(t)
	cfg := &config.Config{
		JWTSecret:        "0123456789abcdef0123456789abcdef",
		JWTIssuer:        "MovieManager",
		JWTAudience:      "MovieManagerUsers",
		JWTAccessExpiry:  time.Hour,
		JWTRefreshExpiry: time.Hour,
	}
	tokens, err := services.NewTokenService(cfg)
	require.NoError(t, err)

	users := repository.NewUserRepository(db)
	movies := repository.NewMovieRepository(db)
	hasher := services.NewBcryptHasher(bcrypt.MinCost)
	store := cache.NewMemory(time.Minute)

	authService := services.NewAuthService(users, hasher, tokens)
	movieService := services.NewMovieService(movies, store, time.Minute, events.Noop{})
	integrationService := services.NewIntegrationService(movies, stubProvider{}, movieService)
	statsService := services.NewStatisticsService(movies, store, time.Minute)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	Setup(app, tokens, Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Health:      handlers.NewHealthHandler(db, nil),
		Movies:      handlers.NewMovieHandler(movieService),
		Integration: handlers.NewIntegrationHandler(integrationService),
		Statistics:  handlers.NewStatisticsHandler(statsService),
	}, RateLimits{})

	return &testServer{app: app, seed: services.NewSeedService(users, movies, hasher, integrationService)}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Errors  []string        `json:"errors"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (s *testServer) login(t *testing.T, email, password string, role models.Role) string {
	t.Helper()
	_, err := s.seed.CreateUser(context.Background(), email, password, "Test", "User", role)
	require.NoError(t, err)

	code, env := s.do(t, "POST", "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, fiber.StatusOK, code, env.Errors)
	var tok dto.TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	return tok.AccessToken
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, "POST", "/api/auth/register", "", map[string]string{
		"email": "ada@example.com", "password": "Secret1", "confirm_password": "Secret1",
		"first_name": "Ada", "last_name": "Lovelace",
	})
	require.Equal(t, fiber.StatusOK, code, env.Errors)
	assert.True(t, env.Success)
	var tok dto.TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	assert.Equal(t, models.RoleUser, tok.Role)

	code, env = s.do(t, "POST", "/api/auth/register", "", map[string]string{
		"email": "ada@example.com", "password": "Secret1", "confirm_password": "Secret1",
		"first_name": "Ada", "last_name": "Lovelace",
	})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.False(t, env.Success)
	assert.Equal(t, []string{"email already registered"}, env.Errors)

	code, env = s.do(t, "POST", "/api/auth/register", "", map[string]string{
		"email": "not-an-email", "password": "weak", "confirm_password": "other",
	})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, env.Errors, "email must be a valid email address")
	assert.Contains(t, env.Errors, "passwords do not match")

	code, env = s.do(t, "POST", "/api/auth/login", "", map[string]string{"email": "ada@example.com", "password": "Secret2"})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, []string{"invalid credentials"}, env.Errors)

	code, env = s.do(t, "POST", "/api/auth/refresh-token", "", map[string]string{"refresh_token": tok.RefreshToken})
	assert.Equal(t, fiber.StatusOK, code)
	assert.True(t, env.Success)

	code, env = s.do(t, "POST", "/api/auth/refresh-token", "", map[string]string{"refresh_token": tok.RefreshToken})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, []string{"invalid refresh token"}, env.Errors)
}

func TestMovieRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin@example.com", "Admin123!", models.RoleAdmin)
	editor := s.login(t, "editor@example.com", "Editor123!", models.RoleEditor)
	user := s.login(t, "user@example.com", "User1234!", models.RoleUser)

	movie := map[string]any{"title": "Alien", "year": 1979, "genres": []string{"Horror", "Sci-Fi"}, "director": "Ridley Scott", "rating": 8.5}

	code, _ := s.do(t, "GET", "/api/movies", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = s.do(t, "POST", "/api/movies", user, movie)
	assert.Equal(t, fiber.StatusForbidden, code)
	code, _ = s.do(t, "POST", "/api/movies", editor, movie)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, env := s.do(t, "POST", "/api/movies", admin, map[string]any{"title": "", "year": 1700, "rating": 11})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, env.Errors, "title is required")
	assert.Contains(t, env.Errors, "rating must be between 0 and 10")

	code, env = s.do(t, "POST", "/api/movies", admin, movie)
	require.Equal(t, fiber.StatusCreated, code, env.Errors)
	var created dto.MovieResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))

	movie["title"] = "Alien (Director's Cut)"
	code, _ = s.do(t, "PUT", "/api/movies/"+created.ID.String(), user, movie)
	assert.Equal(t, fiber.StatusForbidden, code)
	code, env = s.do(t, "PUT", "/api/movies/"+created.ID.String(), editor, movie)
	assert.Equal(t, fiber.StatusOK, code, env.Errors)

	code, env = s.do(t, "GET", "/api/movies/"+created.ID.String(), user, nil)
	require.Equal(t, fiber.StatusOK, code)
	var got dto.MovieResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Alien (Director's Cut)", got.Title)

	code, env = s.do(t, "GET", "/api/movies/search?title=alien", user, nil)
	require.Equal(t, fiber.StatusOK, code)
	var page dto.Page[dto.MovieResponse]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(1), page.TotalCount)

	code, env = s.do(t, "GET", "/api/movies/genre/Sci-Fi", user, nil)
	require.Equal(t, fiber.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Items, 1)

	code, env = s.do(t, "GET", "/api/movies/director/Ridley%20Scott", user, nil)
	require.Equal(t, fiber.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Items, 1)

	code, _ = s.do(t, "GET", "/api/movies/random", user, nil)
	assert.Equal(t, fiber.StatusOK, code)

	code, env = s.do(t, "GET", "/api/movies/recommendations/Horror?count=3", user, nil)
	require.Equal(t, fiber.StatusOK, code)
	var recs []dto.MovieResponse
	require.NoError(t, json.Unmarshal(env.Data, &recs))
	assert.Len(t, recs, 1)

	code, _ = s.do(t, "GET", "/api/movies/not-a-uuid", user, nil)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = s.do(t, "DELETE", "/api/movies/"+created.ID.String(), editor, nil)
	assert.Equal(t, fiber.StatusForbidden, code)
	code, _ = s.do(t, "DELETE", "/api/movies/"+created.ID.String(), admin, nil)
	assert.Equal(t, fiber.StatusOK, code)

	code, env = s.do(t, "GET", "/api/movies/"+created.ID.String(), user, nil)
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, []string{"movie not found"}, env.Errors)

	code, env = s.do(t, "GET", "/api/movies/random", user, nil)
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, []string{"no movies available"}, env.Errors)
}

func TestMovieRoutes_PageSizeQuery(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin@example.com", "Admin123!", models.RoleAdmin)
	for _, title := range []string{"Alien", "Aliens", "Alien 3"} {
		code, env := s.do(t, "POST", "/api/movies", admin, map[string]any{"title": title, "year": 1986, "rating": 8})
		require.Equal(t, fiber.StatusCreated, code, env.Errors)
	}

	for _, query := range []string{"pageSize=2", "page_size=2"} {
		code, env := s.do(t, "GET", "/api/movies?page=1&"+query, admin, nil)
		require.Equal(t, fiber.StatusOK, code)
		var page dto.Page[dto.MovieResponse]
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Equal(t, 2, page.PageSize, query)
		assert.Len(t, page.Items, 2, query)
		assert.Equal(t, int64(3), page.TotalCount, query)
	}
}

func TestIntegrationAndStatisticsRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin@example.com", "Admin123!", models.RoleAdmin)
	editor := s.login(t, "editor@example.com", "Editor123!", models.RoleEditor)

	code, env := s.do(t, "GET", "/api/integration/search-external?title=heat", admin, nil)
	require.Equal(t, fiber.StatusOK, code)
	var hits []dto.ExternalMovie
	require.NoError(t, json.Unmarshal(env.Data, &hits))
	assert.Len(t, hits, 1)

	code, _ = s.do(t, "POST", "/api/integration/import/tt0113277", editor, nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, env = s.do(t, "POST", "/api/integration/import/tt0113277", admin, nil)
	require.Equal(t, fiber.StatusCreated, code, env.Errors)
	var imported dto.MovieResponse
	require.NoError(t, json.Unmarshal(env.Data, &imported))

	code, env = s.do(t, "POST", "/api/integration/import/tt0113277", admin, nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, []string{"movie already exists"}, env.Errors)

	code, env = s.do(t, "POST", "/api/integration/import/tt0000001", admin, nil)
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, []string{"movie not found in metadata provider"}, env.Errors)

	code, _ = s.do(t, "PUT", "/api/integration/sync/"+imported.ID.String(), admin, nil)
	assert.Equal(t, fiber.StatusOK, code)

	code, env = s.do(t, "GET", "/api/statistics/total-movies", admin, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, "1", string(env.Data))

	code, _ = s.do(t, "GET", "/api/statistics/genres", editor, nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, env = s.do(t, "GET", "/api/statistics/top-directors?count=1", admin, nil)
	require.Equal(t, fiber.StatusOK, code)
	var directors []dto.DirectorCount
	require.NoError(t, json.Unmarshal(env.Data, &directors))
	assert.Equal(t, []dto.DirectorCount{{Director: "Michael Mann", Count: 1}}, directors)
}

func TestHealthRoute(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSetupPanicsOnUnruledRoute(t *testing.T) {
	p := protector{router: fiber.New(), jwt: func(c *fiber.Ctx) error { return c.Next() }, authorize: func(c *fiber.Ctx) error { return c.Next() }}
	assert.Panics(t, func() {
		p.handle(fiber.MethodGet, "/api/movies/secret", func(c *fiber.Ctx) error { return nil })
	})
}
