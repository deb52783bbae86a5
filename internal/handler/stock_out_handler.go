package handler

import (
	"stockroom/internal/middleware"
	"stockroom/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StockOutHandler struct {
	stockOutService service.StockOutService
}

func NewStockOutHandler(stockOutService service.StockOutService) *StockOutHandler {
	return &StockOutHandler{stockOutService: stockOutService}
}

func (h *StockOutHandler) GetAll(c *fiber.Ctx) error {
	records, err := h.stockOutService.GetAll()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": records})
}

func (h *StockOutHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	record, err := h.stockOutService.GetByID(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": record})
}

// Prefill serves the form lines seeded from the active template.
func (h *StockOutHandler) Prefill(c *fiber.Ctx) error {
	items, err := h.stockOutService.Prefill()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *StockOutHandler) Create(c *fiber.Ctx) error {
	var req service.StockOutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	record, err := h.stockOutService.Create(&req, middleware.PrincipalFrom(c).Email)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": record})
}

func (h *StockOutHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req service.StockOutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	record, err := h.stockOutService.Update(id, &req, middleware.PrincipalFrom(c).Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": record})
}

func (h *StockOutHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.stockOutService.Delete(id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Record deleted"})
}

func (h *StockOutHandler) Submit(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req service.SubmitItemsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	record, err := h.stockOutService.Submit(id, &req, middleware.PrincipalFrom(c).Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": record})
}
