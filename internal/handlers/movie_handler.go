package handlers

import (
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/services"
	"github.com/gofiber/fiber/v2"
)

type MovieHandler struct {
	movieService *services.MovieService
}

func NewMovieHandler(movieService *services.MovieService) *MovieHandler {
	return &MovieHandler{movieService: movieService}
}

func (h *MovieHandler) List(c *fiber.Ctx) error {
	return h.list(c, dto.MovieQuery{})
}

func (h *MovieHandler) Search(c *fiber.Ctx) error {
	title := c.Query("title")
	if title == "" {
		return badRequest(c, "title is required")
	}
	return h.list(c, dto.MovieQuery{Title: title})
}

func (h *MovieHandler) ByGenre(c *fiber.Ctx) error {
	return h.list(c, dto.MovieQuery{Genre: pathParam(c, "genre")})
}

func (h *MovieHandler) ByDirector(c *fiber.Ctx) error {
	return h.list(c, dto.MovieQuery{Director: pathParam(c, "director")})
}

func (h *MovieHandler) list(c *fiber.Ctx, q dto.MovieQuery) error {
	q.Page = c.QueryInt("page", 1)
	q.PageSize = c.QueryInt("pageSize", c.QueryInt("page_size", services.DefaultPageSize))

	page, err := h.movieService.List(c.UserContext(), q)
	if err != nil {
		return fail(c, err)
	}
	return success(c, *page, "")
}

func (h *MovieHandler) Get(c *fiber.Ctx) error {
	id, valid := movieID(c)
	if !valid {
		return badRequest(c, "invalid movie id")
	}

	movie, err := h.movieService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return success(c, *movie, "")
}

func (h *MovieHandler) Random(c *fiber.Ctx) error {
	movie, err := h.movieService.Random(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return success(c, *movie, "")
}

func (h *MovieHandler) Recommendations(c *fiber.Ctx) error {
	movies, err := h.movieService.Recommendations(c.UserContext(), pathParam(c, "genre"), c.QueryInt("count", services.DefaultRecommendations))
	if err != nil {
		return fail(c, err)
	}
	return success(c, movies, "")
}

func (h *MovieHandler) Create(c *fiber.Ctx) error {
	var req dto.MovieRequest
	if ok, err := decode(c, &req); !ok {
		return err
	}

	movie, err := h.movieService.Create(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, *movie, "Movie created successfully")
}

func (h *MovieHandler) Update(c *fiber.Ctx) error {
	id, valid := movieID(c)
	if !valid {
		return badRequest(c, "invalid movie id")
	}
	var req dto.MovieRequest
	if ok, err := decode(c, &req); !ok {
		return err
	}

	movie, err := h.movieService.Update(c.UserContext(), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return success(c, *movie, "Movie updated successfully")
}

func (h *MovieHandler) Delete(c *fiber.Ctx) error {
	id, valid := movieID(c)
	if !valid {
		return badRequest(c, "invalid movie id")
	}

	if err := h.movieService.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return success(c, true, "Movie deleted successfully")
}
