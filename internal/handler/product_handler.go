package handler

import (
	"stockroom/internal/middleware"
	"stockroom/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) GetAll(c *fiber.Ctx) error {
	products, err := h.productService.GetAll()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": products})
}

func (h *ProductHandler) GetTrashed(c *fiber.Ctx) error {
	products, err := h.productService.GetTrashed()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": products})
}

func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	product, err := h.productService.GetByID(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": product})
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	product, err := h.productService.Create(&req, middleware.PrincipalFrom(c).Email)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": product})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	product, err := h.productService.Update(id, &req, middleware.PrincipalFrom(c).Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": product})
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.productService.Delete(id, middleware.PrincipalFrom(c).Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func (h *ProductHandler) Restore(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	product, err := h.productService.Restore(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": product})
}

func (h *ProductHandler) ForceDelete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.productService.ForceDelete(id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Product permanently deleted"})
}
