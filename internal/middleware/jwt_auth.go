package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/flori/fittrack/internal/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// Context keys for storing user info
const (
	UserIDKey   = "userID"
	UsernameKey = "username"
)

// SessionExpiredCode is sent with every 401 so clients know to sign in again
const SessionExpiredCode = "session_expired"

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": msg,
		"code":  SessionExpiredCode,
	})
}

// VerifyToken validates the bearer JWT and stores the user in the request context.
// When a correctly signed token has expired, the user's replay cache is purged.
// cache may be nil.
func VerifyToken(jwtSecret string, cache domain.CacheRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "missing authorization token")
		}
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			return unauthorized(c, "invalid authorization header format, expected 'Bearer <token>'")
		}

		claims := &domain.AccessClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(jwtSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) && claims.UserID != "" {
				purgeReplayCache(cache, claims.UserID)
				return unauthorized(c, "token expired")
			}
			return unauthorized(c, "invalid or expired token")
		}
		if !token.Valid || claims.UserID == "" {
			return unauthorized(c, "invalid token claims")
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(UsernameKey, claims.Username)
		return c.Next()
	}
}

func purgeReplayCache(cache domain.CacheRepository, userID string) {
	if cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := cache.DeleteByPattern(ctx, domain.IdempotencyPattern(userID)); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("failed to purge replay cache for expired session")
	}
}

// UserID returns the authenticated user. Only valid behind VerifyToken.
func UserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(UserIDKey).(string)
	return userID
}
