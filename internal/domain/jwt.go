package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims represents the JWT claims issued on login
type AccessClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
