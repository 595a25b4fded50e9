package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/database/dbtest"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/logging"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/models"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func call(t *testing.T, app *fiber.App, path string) (int, dto.Result[any]) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env dto.Result[any]
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/infra", func(c *fiber.Ctx) error {
		return fail(c, fmt.Errorf("list movies: %w", errors.New("connection refused to 10.0.0.5")))
	})
	app.Get("/domain", func(c *fiber.Ctx) error {
		return fail(c, fmt.Errorf("wrapped: %w", services.ErrMovieNotFound))
	})
	app.Get("/client", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	t.Run("infrastructure detail is withheld", func(t *testing.T) {
		code, env := call(t, app, "/infra")
		assert.Equal(t, fiber.StatusInternalServerError, code)
		assert.False(t, env.Success)
		assert.Equal(t, "Internal server error", env.Message)
		assert.NotContains(t, env.Message, "10.0.0.5")
	})

	t.Run("domain failure keeps its message", func(t *testing.T) {
		code, env := call(t, app, "/domain")
		assert.Equal(t, fiber.StatusNotFound, code)
		assert.Equal(t, []string{"movie not found"}, env.Errors)
	})

	t.Run("fiber errors keep their status", func(t *testing.T) {
		code, env := call(t, app, "/client")
		assert.Equal(t, fiber.StatusTeapot, code)
		assert.Equal(t, "short and stout", env.Message)
	})

	t.Run("unknown route", func(t *testing.T) {
		code, _ := call(t, app, "/nowhere")
		assert.Equal(t, fiber.StatusNotFound, code)
	})
}

func TestErrorHandler_StoredLogsKeepTheirOwnPath(t *testing.T) {
	db := dbtest.New(t)
	sink := logging.NewDBHandler(db, time.Hour)
	previous := slog.Default()
	slog.SetDefault(slog.New(sink))
	t.Cleanup(func() { slog.SetDefault(previous) })

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/api/:name", func(c *fiber.Ctx) error {
		return errors.New("lookup failed")
	})

	paths := []string{"/api/aaaaaaaaaa", "/api/bbbbbbbbbb", "/api/cccccccccc"}
	for _, p := range paths {
		code, _ := call(t, app, p)
		require.Equal(t, fiber.StatusInternalServerError, code)
	}
	sink.Stop()

	var logs []models.SystemLog
	require.NoError(t, db.Order("timestamp").Find(&logs).Error)
	require.Len(t, logs, len(paths))
	stored := make([]string, 0, len(logs))
	for _, l := range logs {
		assert.Equal(t, "GET", l.Method)
		stored = append(stored, l.Path)
	}
	assert.ElementsMatch(t, paths, stored)
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	mock.ExpectPing().WillReturnError(errors.New("db down"))

	app := fiber.New()
	app.Get("/api/health", NewHealthHandler(db, nil).Check)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var body dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "unhealthy", body.DB)
}

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_ProviderDownIsDegraded(t *testing.T) {
	db := dbtest.New(t)
	down := pingerFunc(func(context.Context) error { return errors.New("dial tcp: timeout") })
	up := pingerFunc(func(context.Context) error { return nil })

	for _, tc := range []struct {
		name     string
		provider Pinger
		status   string
		upstream string
	}{
		{"provider unreachable", down, "degraded", "unreachable"},
		{"provider reachable", up, "ok", "ok"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/api/health", NewHealthHandler(db, tc.provider).Check)

			resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)

			var body dto.HealthResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.status, body.Status)
			assert.Equal(t, "ok", body.DB)
			assert.Equal(t, tc.upstream, body.Provider)
		})
	}
}
