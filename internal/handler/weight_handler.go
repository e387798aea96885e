package handler

import (
	"github.com/flori/fittrack/internal/middleware"
	"github.com/flori/fittrack/internal/service"
	"github.com/gofiber/fiber/v2"
)

type WeightHandler struct {
	weightService *service.WeightService
}

func NewWeightHandler(weightService *service.WeightService) *WeightHandler {
	return &WeightHandler{weightService: weightService}
}

// List GET /v1/me/weight
func (h *WeightHandler) List(c *fiber.Ctx) error {
	entries, err := h.weightService.List(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": nonNil(entries)})
}

// Create POST /v1/me/weight
func (h *WeightHandler) Create(c *fiber.Ctx) error {
	var req struct {
		Date   string  `json:"date"`
		Weight float64 `json:"weight"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body")
	}

	entry, err := h.weightService.Create(c.UserContext(), middleware.UserID(c), req.Date, req.Weight)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// Delete DELETE /v1/me/weight/:id
func (h *WeightHandler) Delete(c *fiber.Ctx) error {
	if err := h.weightService.Delete(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// nonNil keeps empty lists as [] in JSON
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
