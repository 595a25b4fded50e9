package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/database"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/dto"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Pinger is an upstream dependency the health check reports on.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db       *gorm.DB
	provider Pinger
}

// NewHealthHandler checks db and, when provider is non-nil, the metadata
// provider.
func NewHealthHandler(db *gorm.DB, provider Pinger) *HealthHandler {
	return &HealthHandler{db: db, provider: provider}
}

// Check reports 503 when the database does not answer a ping. An unreachable
// provider only marks the service degraded.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        "ok",
	}
	if h.provider != nil {
		resp.Provider = "ok"
		if err := h.provider.Ping(ctx); err != nil {
			slog.Warn("metadata provider unreachable", "error", err)
			resp.Status = "degraded"
			resp.Provider = "unreachable"
		}
	}
	if err := database.Ping(ctx, h.db); err != nil {
		resp.Status = "degraded"
		resp.DB = "unhealthy"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
