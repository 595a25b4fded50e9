package handlers

import (
	"errors"
	"net/url"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/services"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// domainStatus maps workflow failures to the status reported to clients.
// Anything not listed is an infrastructure error.
var domainStatus = []struct {
	err    error
	status int
}{
	{services.ErrMovieNotFound, fiber.StatusNotFound},
	{services.ErrNoMovies, fiber.StatusNotFound},
	{services.ErrExternalNotFound, fiber.StatusNotFound},
	{services.ErrMovieExists, fiber.StatusBadRequest},
	{services.ErrNoExternalID, fiber.StatusBadRequest},
	{services.ErrEmailTaken, fiber.StatusBadRequest},
	{services.ErrInvalidCredentials, fiber.StatusBadRequest},
	{services.ErrAccountDeactivated, fiber.StatusBadRequest},
	{services.ErrInvalidRefreshToken, fiber.StatusBadRequest},
	{services.ErrRefreshTokenExpired, fiber.StatusBadRequest},
}

// fail writes domain failures into the envelope and hands every other error
// to the app's ErrorHandler.
func fail(c *fiber.Ctx, err error) error {
	for _, d := range domainStatus {
		if errors.Is(err, d.err) {
			return c.Status(d.status).JSON(dto.Fail(d.err.Error()))
		}
	}
	return err
}

func badRequest(c *fiber.Ctx, message string, errs ...string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(message, errs...))
}

// decode parses and validates the JSON body into req. When it returns false
// the response has already been written and err is the write result.
func decode(c *fiber.Ctx, req any) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, badRequest(c, "Invalid request body")
	}
	if errs := validation.Struct(req); len(errs) > 0 {
		return false, badRequest(c, "Validation failed", errs...)
	}
	return true, nil
}

func movieID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

// pathParam returns the decoded value of a route parameter.
func pathParam(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func success[T any](c *fiber.Ctx, data T, message string) error {
	return c.JSON(dto.Ok(data, message))
}

func created[T any](c *fiber.Ctx, data T, message string) error {
	return c.Status(fiber.StatusCreated).JSON(dto.Ok(data, message))
}
