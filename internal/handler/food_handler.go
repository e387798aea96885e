package handler

import (
	"github.com/flori/fittrack/internal/middleware"
	"github.com/flori/fittrack/internal/service"
	"github.com/gofiber/fiber/v2"
)

// FoodHandler serves food entries and saved-food templates
type FoodHandler struct {
	foodService *service.FoodService
}

func NewFoodHandler(foodService *service.FoodService) *FoodHandler {
	return &FoodHandler{foodService: foodService}
}

// List GET /v1/me/food?date=YYYY-MM-DD (defaults to today)
func (h *FoodHandler) List(c *fiber.Ctx) error {
	entries, err := h.foodService.ListByDate(c.UserContext(), middleware.UserID(c), c.Query("date"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": nonNil(entries)})
}

// Create POST /v1/me/food
func (h *FoodHandler) Create(c *fiber.Ctx) error {
	var req service.FoodInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body")
	}

	out, err := h.foodService.Create(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete DELETE /v1/me/food/:id
func (h *FoodHandler) Delete(c *fiber.Ctx) error {
	if err := h.foodService.Delete(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Summary GET /v1/me/food/summary?date=
func (h *FoodHandler) Summary(c *fiber.Ctx) error {
	sum, err := h.foodService.Summary(c.UserContext(), middleware.UserID(c), c.Query("date"))
	if err != nil {
		return err
	}
	return c.JSON(sum)
}

// --- Saved foods ---

func (h *FoodHandler) ListSaved(c *fiber.Ctx) error {
	foods, err := h.foodService.ListSavedFoods(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": nonNil(foods)})
}

func (h *FoodHandler) CreateSaved(c *fiber.Ctx) error {
	var req service.SavedFoodInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body")
	}

	food, err := h.foodService.CreateSavedFood(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(food)
}

func (h *FoodHandler) DeleteSaved(c *fiber.Ctx) error {
	if err := h.foodService.DeleteSavedFood(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LogSaved POST /v1/me/saved-foods/:id/log. The body is optional.
func (h *FoodHandler) LogSaved(c *fiber.Ctx) error {
	var req struct {
		Date string `json:"date"`
		Time string `json:"time"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest("invalid request body")
		}
	}

	entry, err := h.foodService.LogSavedFood(c.UserContext(), middleware.UserID(c), c.Params("id"), req.Date, req.Time)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}
