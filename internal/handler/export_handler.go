package handler

import (
	"github.com/flori/fittrack/internal/middleware"
	"github.com/flori/fittrack/internal/service"
	"github.com/gofiber/fiber/v2"
)

type ExportHandler struct {
	exportService *service.ExportService
}

func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Export POST /v1/me/export
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	res, err := h.exportService.Export(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}
