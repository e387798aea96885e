package handler

import (
	"errors"

	"github.com/flori/fittrack/internal/domain"
	"github.com/flori/fittrack/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// statusOf maps a domain error kind to an HTTP status
func statusOf(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrTransient):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler is the app-wide Fiber error handler. Handlers return domain errors
// and this turns them into {"error": ...} responses.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := statusOf(err)
	body := fiber.Map{"error": err.Error()}

	switch {
	case code == fiber.StatusUnauthorized:
		body["code"] = middleware.SessionExpiredCode
	case code >= fiber.StatusInternalServerError:
		entry := logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"status": code,
		})
		if code == fiber.StatusServiceUnavailable {
			entry.Warn("request failed")
		} else {
			entry.Error("request failed")
			body["error"] = "internal server error"
		}
	}
	return c.Status(code).JSON(body)
}

// badRequest wraps a body or query parse failure
func badRequest(msg string) error {
	return fiber.NewError(fiber.StatusBadRequest, msg)
}
