package service

import (
	"context"
	"testing"
	"time"

	"github.com/flori/fittrack/internal/config"
	"github.com/flori/fittrack/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWT = config.JWTConfig{Secret: "test-secret", AccessTokenExpiry: time.Hour}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	svc := NewAuthService(users, nil, testJWT)

	res, err := svc.Register(ctx, "  Ana.Lifts ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "ana.lifts", res.User.Username)
	assert.NotEqual(t, "correct horse", res.User.PasswordHash)
	assert.EqualValues(t, 3600, res.ExpiresIn)

	claims := &domain.AccessClaims{}
	_, err = jwt.ParseWithClaims(res.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWT.Secret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, "ana.lifts", claims.Username)

	_, err = svc.Register(ctx, "ana.lifts", "another password")
	assert.ErrorIs(t, err, domain.ErrConflict)

	login, err := svc.Login(ctx, "ANA.LIFTS", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = svc.Login(ctx, "ana.lifts", "wrong password")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.Login(ctx, "nobody", "correct horse")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.Login(ctx, "!", "correct horse")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), nil, testJWT)

	_, err := svc.Register(context.Background(), "ab", "long enough")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Register(context.Background(), "ana", "short")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLogoutClearsReplayCache(t *testing.T) {
	ctx := context.Background()
	cache := newFakeCache()
	svc := NewAuthService(newFakeUserRepo(), cache, testJWT)

	require.NoError(t, cache.SetRaw(ctx, domain.IdempotencyKey("u1", "POST", "/v1/me/food", "c1"), []byte("{}"), time.Hour))
	require.NoError(t, cache.SetRaw(ctx, domain.IdempotencyKey("u2", "POST", "/v1/me/food", "c1"), []byte("{}"), time.Hour))

	require.NoError(t, svc.Logout(ctx, "u1"))

	_, err := cache.GetRaw(ctx, domain.IdempotencyKey("u1", "POST", "/v1/me/food", "c1"))
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	_, err = cache.GetRaw(ctx, domain.IdempotencyKey("u2", "POST", "/v1/me/food", "c1"))
	assert.NoError(t, err)

	assert.NoError(t, NewAuthService(newFakeUserRepo(), nil, testJWT).Logout(ctx, "u1"))
}
