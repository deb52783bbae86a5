package handler

import (
	"stockroom/internal/middleware"
	"stockroom/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TemplateHandler struct {
	templateService service.TemplateService
}

func NewTemplateHandler(templateService service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

func (h *TemplateHandler) GetAll(c *fiber.Ctx) error {
	templates, err := h.templateService.GetAll()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": templates})
}

func (h *TemplateHandler) GetTrashed(c *fiber.Ctx) error {
	templates, err := h.templateService.GetTrashed()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": templates})
}

// GetActive returns the currently active template, or null when none is
// designated.
func (h *TemplateHandler) GetActive(c *fiber.Ctx) error {
	template, err := h.templateService.Resolve()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": template})
}

func (h *TemplateHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	template, err := h.templateService.GetByID(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": template})
}

func (h *TemplateHandler) Create(c *fiber.Ctx) error {
	var req service.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	template, err := h.templateService.Create(&req, middleware.PrincipalFrom(c).Email)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": template})
}

func (h *TemplateHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req service.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	template, err := h.templateService.Update(id, &req, middleware.PrincipalFrom(c).Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": template})
}

func (h *TemplateHandler) SetActive(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	template, err := h.templateService.SetActive(id, middleware.PrincipalFrom(c).Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": template})
}

func (h *TemplateHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.templateService.Delete(id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Template deleted"})
}

func (h *TemplateHandler) Restore(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	template, err := h.templateService.Restore(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": template})
}

func (h *TemplateHandler) ForceDelete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.templateService.ForceDelete(id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Template permanently deleted"})
}
