package handlers

import (
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if ok, err := decode(c, &req); !ok {
		return err
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return success(c, *resp, "User registered successfully")
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if ok, err := decode(c, &req); !ok {
		return err
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return success(c, *resp, "Login successful")
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if ok, err := decode(c, &req); !ok {
		return err
	}

	resp, err := h.authService.Refresh(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return success(c, *resp, "Token refreshed successfully")
}
