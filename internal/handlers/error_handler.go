package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/dto"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
)

// ErrorHandler is the fiber error boundary. Client errors keep their message;
// server errors are logged and reported with full detail and answered with a
// generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		requestID, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		slog.Error("unhandled server error",
			"request_id", requestID,
			"method", utils.CopyString(c.Method()),
			"path", utils.CopyString(c.Path()),
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.Fail(message))
}
