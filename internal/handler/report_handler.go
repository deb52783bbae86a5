package handler

import (
	"fmt"

	"stockroom/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.reportService.Dashboard()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

func (h *ReportHandler) ExportStock(c *fiber.Ctx) error {
	buf, filename, err := h.reportService.ExportStock()
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}
