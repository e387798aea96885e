package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flori/fittrack/internal/config"
	"github.com/flori/fittrack/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes
	maxPasswordLength = 72
)

// AuthService handles registration, login and logout
type AuthService struct {
	userRepo  domain.UserRepository
	cache     domain.CacheRepository
	jwtConfig config.JWTConfig
	now       func() time.Time
}

// NewAuthService creates a new auth service. cache may be nil.
func NewAuthService(userRepo domain.UserRepository, cache domain.CacheRepository, jwtConfig config.JWTConfig) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		cache:     cache,
		jwtConfig: jwtConfig,
		now:       time.Now,
	}
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"` // seconds
}

// Register creates an account and signs the user in
func (s *AuthService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	name, err := domain.NormalizeUsername(username)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return nil, domain.Validationf("password must be %d to %d characters", minPasswordLength, maxPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     name,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")
	return s.issue(user)
}

// Login verifies the password. Unknown users and wrong passwords look the same to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	name, err := domain.NormalizeUsername(username)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(user)
}

// Logout drops the user's cached replay responses
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.DeleteByPattern(ctx, domain.IdempotencyPattern(userID)); err != nil {
		return fmt.Errorf("failed to clear cached state: %w", err)
	}
	logrus.WithField("user_id", userID).Info("user logged out")
	return nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresIn: int64(s.jwtConfig.AccessTokenExpiry.Seconds()),
	}, nil
}

// generateAccessToken creates an HS256 JWT access token
func (s *AuthService) generateAccessToken(user *domain.User) (string, error) {
	now := s.now()
	claims := domain.AccessClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.Secret))
}
