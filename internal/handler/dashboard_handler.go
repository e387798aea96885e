package handler

import (
	"github.com/flori/fittrack/internal/middleware"
	"github.com/flori/fittrack/internal/service"
	"github.com/gofiber/fiber/v2"
)

// DashboardHandler serves the derived views. Nothing here is stored; every call
// recomputes from the records.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// KPI GET /v1/me/dashboard/kpi
func (h *DashboardHandler) KPI(c *fiber.Ctx) error {
	kpi, err := h.dashboardService.KPI(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(kpi)
}

// Calendar GET /v1/me/dashboard/calendar/:year/:month
func (h *DashboardHandler) Calendar(c *fiber.Ctx) error {
	year, err := c.ParamsInt("year")
	if err != nil {
		return badRequest("year must be a number")
	}
	month, err := c.ParamsInt("month")
	if err != nil {
		return badRequest("month must be a number")
	}

	cal, err := h.dashboardService.CalendarMonth(c.UserContext(), middleware.UserID(c), year, month)
	if err != nil {
		return err
	}
	return c.JSON(cal)
}

// Consistency GET /v1/me/dashboard/consistency
func (h *DashboardHandler) Consistency(c *fiber.Ctx) error {
	panels, err := h.dashboardService.Consistency(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"months": panels})
}
