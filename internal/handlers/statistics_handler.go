package handlers

import (
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/services"
	"github.com/gofiber/fiber/v2"
)

type StatisticsHandler struct {
	statsService *services.StatisticsService
}

func NewStatisticsHandler(statsService *services.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statsService: statsService}
}

func (h *StatisticsHandler) TotalMovies(c *fiber.Ctx) error {
	total, err := h.statsService.TotalMovies(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return success(c, total, "")
}

func (h *StatisticsHandler) Genres(c *fiber.Ctx) error {
	genres, err := h.statsService.Genres(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return success(c, genres, "")
}

func (h *StatisticsHandler) YearsDistribution(c *fiber.Ctx) error {
	years, err := h.statsService.YearsDistribution(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return success(c, years, "")
}

func (h *StatisticsHandler) TopDirectors(c *fiber.Ctx) error {
	directors, err := h.statsService.TopDirectors(c.UserContext(), c.QueryInt("count", services.DefaultTopDirectors))
	if err != nil {
		return fail(c, err)
	}
	return success(c, directors, "")
}
