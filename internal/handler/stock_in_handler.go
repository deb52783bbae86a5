package handler

import (
	"stockroom/internal/middleware"
	"stockroom/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StockInHandler struct {
	stockInService service.StockInService
}

func NewStockInHandler(stockInService service.StockInService) *StockInHandler {
	return &StockInHandler{stockInService: stockInService}
}

func (h *StockInHandler) GetAll(c *fiber.Ctx) error {
	records, err := h.stockInService.GetAll()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": records})
}

func (h *StockInHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	record, err := h.stockInService.GetByID(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": record})
}

func (h *StockInHandler) Create(c *fiber.Ctx) error {
	var req service.StockInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	record, err := h.stockInService.Create(&req, middleware.PrincipalFrom(c).Email)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": record})
}

func (h *StockInHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req service.StockInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	record, err := h.stockInService.Update(id, &req, middleware.PrincipalFrom(c).Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": record})
}

func (h *StockInHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.stockInService.Delete(id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Record deleted"})
}

func (h *StockInHandler) Submit(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req service.SubmitItemsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	record, err := h.stockInService.Submit(id, &req, middleware.PrincipalFrom(c).Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": record})
}
