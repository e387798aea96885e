package handler

import (
	"github.com/flori/fittrack/internal/domain"
	"github.com/flori/fittrack/internal/middleware"
	"github.com/flori/fittrack/internal/service"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Get GET /v1/me/profile
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	user, err := h.profileService.Get(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// Update PUT /v1/me/profile. Omitted goals are cleared.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var req domain.ProfileUpdate
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body")
	}

	user, err := h.profileService.Update(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// ResolveOwner is the middleware of the public routes: it looks up :username and, when
// the owner shares their dashboard, runs the regular read handlers on their behalf.
func (h *ProfileHandler) ResolveOwner(c *fiber.Ctx) error {
	user, err := h.profileService.ResolvePublic(c.UserContext(), c.Params("username"))
	if err != nil {
		return err
	}
	c.Locals(middleware.UserIDKey, user.ID)
	c.Locals(middleware.UsernameKey, user.Username)
	return c.Next()
}
