package handlers

import (
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/services"
	"github.com/gofiber/fiber/v2"
)

type IntegrationHandler struct {
	integrationService *services.IntegrationService
}

func NewIntegrationHandler(integrationService *services.IntegrationService) *IntegrationHandler {
	return &IntegrationHandler{integrationService: integrationService}
}

func (h *IntegrationHandler) SearchExternal(c *fiber.Ctx) error {
	title := c.Query("title")
	if title == "" {
		return badRequest(c, "title is required")
	}
	return success(c, h.integrationService.SearchExternal(c.UserContext(), title), "")
}

func (h *IntegrationHandler) Import(c *fiber.Ctx) error {
	externalID := pathParam(c, "externalId")
	if externalID == "" || len(externalID) > 20 {
		return badRequest(c, "invalid external id")
	}

	movie, err := h.integrationService.Import(c.UserContext(), externalID)
	if err != nil {
		return fail(c, err)
	}
	return created(c, *movie, "Movie imported successfully")
}

func (h *IntegrationHandler) Sync(c *fiber.Ctx) error {
	id, valid := movieID(c)
	if !valid {
		return badRequest(c, "invalid movie id")
	}

	movie, err := h.integrationService.Sync(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return success(c, *movie, "Movie synchronized successfully")
}
