package handler

import (
	"github.com/flori/fittrack/internal/domain"
	"github.com/flori/fittrack/internal/middleware"
	"github.com/flori/fittrack/internal/service"
	"github.com/gofiber/fiber/v2"
)

// SessionHandler serves the workout session lifecycle
type SessionHandler struct {
	sessionService *service.SessionService
}

func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

type exerciseView struct {
	*domain.Exercise
	Volume float64 `json:"volume"`
}

// sessionView adds the derived volumes to a session
type sessionView struct {
	*domain.GymSession
	Exercises   []exerciseView `json:"exercises"`
	TotalVolume float64        `json:"total_volume"`
}

func viewOf(s *domain.GymSession) *sessionView {
	v := &sessionView{
		GymSession:  s,
		Exercises:   make([]exerciseView, 0, len(s.Exercises)),
		TotalVolume: s.Volume(),
	}
	for _, ex := range s.Exercises {
		v.Exercises = append(v.Exercises, exerciseView{Exercise: ex, Volume: ex.Volume()})
	}
	return v
}

// List GET /v1/me/sessions?page=&limit=
func (h *SessionHandler) List(c *fiber.Ctx) error {
	page, err := h.sessionService.ListSessions(c.UserContext(), middleware.UserID(c), c.QueryInt("page", 1), c.QueryInt("limit", 0))
	if err != nil {
		return err
	}

	data := make([]*sessionView, 0, len(page.Data))
	for _, s := range page.Data {
		data = append(data, viewOf(s))
	}
	return c.JSON(fiber.Map{
		"data":  data,
		"page":  page.Page,
		"limit": page.Limit,
		"total": page.Total,
	})
}

// Active GET /v1/me/sessions/active
func (h *SessionHandler) Active(c *fiber.Ctx) error {
	s, err := h.sessionService.GetActive(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(viewOf(s))
}

// Latest GET /v1/me/sessions/latest
func (h *SessionHandler) Latest(c *fiber.Ctx) error {
	s, err := h.sessionService.GetLatestCompleted(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(viewOf(s))
}

// Get GET /v1/me/sessions/:id
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	s, err := h.sessionService.GetSession(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(viewOf(s))
}

// Start POST /v1/me/sessions/start
func (h *SessionHandler) Start(c *fiber.Ctx) error {
	var req struct {
		Plan    domain.Plan `json:"plan"`
		DayType string      `json:"day_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body")
	}

	s, err := h.sessionService.StartSession(c.UserContext(), middleware.UserID(c), req.Plan, req.DayType)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(viewOf(s))
}

// AddExercise POST /v1/me/sessions/:id/exercises. Client-sent set numbers are ignored;
// sets are numbered in the order given.
func (h *SessionHandler) AddExercise(c *fiber.Ctx) error {
	var req struct {
		Name string            `json:"name"`
		Sets []domain.SetInput `json:"sets"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body")
	}

	ex, err := h.sessionService.AddExercise(c.UserContext(), middleware.UserID(c), c.Params("id"), req.Name, req.Sets)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(exerciseView{Exercise: ex, Volume: ex.Volume()})
}

// Complete POST /v1/me/sessions/:id/complete
func (h *SessionHandler) Complete(c *fiber.Ctx) error {
	s, err := h.sessionService.CompleteSession(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(viewOf(s))
}

// Delete DELETE /v1/me/sessions/:id
func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	if err := h.sessionService.DeleteSession(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
