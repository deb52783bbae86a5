package handler

import (
	"stockroom/internal/authz"
	"stockroom/internal/middleware"
	"stockroom/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService service.UserService
	authorizer  authz.Service
}

func NewUserHandler(userService service.UserService, authorizer authz.Service) *UserHandler {
	return &UserHandler{userService: userService, authorizer: authorizer}
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return id, nil
}

func (h *UserHandler) GetAll(c *fiber.Ctx) error {
	users, err := h.userService.GetAll()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": users})
}

// GetByID lets a user read their own record without the users.view permission.
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.authorizer.AuthorizeOrSelf(middleware.PrincipalFrom(c), id, "users.view"); err != nil {
		return err
	}
	user, err := h.userService.GetByID(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": user})
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.userService.Create(&req, middleware.PrincipalFrom(c).Email)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": user.ToResponse()})
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.userService.Update(id, &req, middleware.PrincipalFrom(c).Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": user.ToResponse()})
}

// Delete refuses self-deletion regardless of grants.
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.authorizer.AuthorizeNotSelf(middleware.PrincipalFrom(c), id, "users.delete"); err != nil {
		return err
	}
	if err := h.userService.Delete(id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

// ToggleStatus refuses self-suspension regardless of grants.
func (h *UserHandler) ToggleStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.authorizer.AuthorizeNotSelf(middleware.PrincipalFrom(c), id, "users.toggle-status"); err != nil {
		return err
	}
	user, err := h.userService.ToggleStatus(id, middleware.PrincipalFrom(c).Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": user.ToResponse()})
}

type syncPermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

func (h *UserHandler) SyncPermissions(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req syncPermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.userService.SyncPermissions(id, req.Permissions, middleware.PrincipalFrom(c).Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": user.ToResponse()})
}
