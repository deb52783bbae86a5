package handler

import (
	"stockroom/internal/middleware"
	"stockroom/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	token, user, err := h.authService.Login(&req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user.ToResponse(),
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal := middleware.PrincipalFrom(c)
	user, err := h.authService.Me(principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": user})
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	principal := middleware.PrincipalFrom(c)

	var req service.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.authService.UpdateProfile(principal.ID, &req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": user.ToResponse()})
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal := middleware.PrincipalFrom(c)

	var req service.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.authService.ChangePassword(principal.ID, &req); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Password updated"})
}
