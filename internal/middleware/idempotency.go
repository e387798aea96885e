package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/flori/fittrack/internal/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	CorrelationIDHeader    = "X-Correlation-ID"
	IdempotentReplayHeader = "X-Idempotent-Replay"
)

// cachedResponse is what gets stored per correlation id
type cachedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// Idempotency replays the cached response of a mutating request whose X-Correlation-ID
// was already seen for the same user, method and path within ttl. Only 2xx responses
// are cached.
// Must run after VerifyToken.
func Idempotency(cache domain.CacheRepository, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
		default:
			return c.Next()
		}

		correlationID := c.Get(CorrelationIDHeader)
		userID := UserID(c)
		if correlationID == "" || userID == "" {
			return c.Next()
		}
		key := domain.IdempotencyKey(userID, c.Method(), c.Path(), correlationID)

		var cached cachedResponse
		err := cache.Get(c.UserContext(), key, &cached)
		switch {
		case err == nil:
			c.Set(IdempotentReplayHeader, "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(cached.Status).Send(cached.Body)
		case !errors.Is(err, domain.ErrCacheMiss):
			// cache outage must not block writes
			logrus.WithError(err).WithField("key", key).Warn("idempotency lookup failed")
		}

		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status < 200 || status >= 300 {
			return nil
		}
		// fasthttp reuses the response buffer after the handler returns
		body := append([]byte(nil), c.Response().Body()...)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.Set(ctx, key, cachedResponse{Status: status, Body: body}, ttl); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("failed to cache idempotent response")
		}
		return nil
	}
}
