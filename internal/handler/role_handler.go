package handler

import (
	"strconv"

	"stockroom/internal/repository"
	"stockroom/internal/service"

	"github.com/gofiber/fiber/v2"
)

type RoleHandler struct {
	roleService service.RoleService
	permRepo    repository.PermissionRepository
}

func NewRoleHandler(roleService service.RoleService, permRepo repository.PermissionRepository) *RoleHandler {
	return &RoleHandler{roleService: roleService, permRepo: permRepo}
}

func parseUintID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return uint(id), nil
}

func (h *RoleHandler) GetAll(c *fiber.Ctx) error {
	roles, err := h.roleService.GetAll()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": roles})
}

func (h *RoleHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseUintID(c)
	if err != nil {
		return err
	}
	role, err := h.roleService.GetByID(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": role})
}

// Permissions lists every known permission, for role and grant editors.
func (h *RoleHandler) Permissions(c *fiber.Ctx) error {
	permissions, err := h.permRepo.FindAll()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": permissions})
}

func (h *RoleHandler) Create(c *fiber.Ctx) error {
	var req service.RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	role, err := h.roleService.Create(&req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": role})
}

func (h *RoleHandler) Update(c *fiber.Ctx) error {
	id, err := parseUintID(c)
	if err != nil {
		return err
	}
	var req service.RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	role, err := h.roleService.Update(id, &req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": role})
}

func (h *RoleHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUintID(c)
	if err != nil {
		return err
	}
	if err := h.roleService.Delete(id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Role deleted"})
}
