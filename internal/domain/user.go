package domain

import (
	"context"
	"regexp"
	"strings"
	"time"
)

var (
	ErrUserNotFound  = NewError(ErrNotFound, "user not found")
	ErrUsernameTaken = NewError(ErrConflict, "username already taken")
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.-]{3,32}$`)

// User is an account plus its profile settings.
type User struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	Username         string    `bson:"username" json:"username"` // Unique Index
	PasswordHash     string    `bson:"password_hash" json:"-"`
	DailyCalorieGoal *int      `bson:"daily_calorie_goal,omitempty" json:"daily_calorie_goal"`
	DailyProteinGoal *int      `bson:"daily_protein_goal,omitempty" json:"daily_protein_goal"`
	PublicDashboard  bool      `bson:"public_dashboard" json:"public_dashboard"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}

// ProfileUpdate carries the user-editable profile fields.
type ProfileUpdate struct {
	DailyCalorieGoal *int `json:"daily_calorie_goal"`
	DailyProteinGoal *int `json:"daily_protein_goal"`
	PublicDashboard  bool `json:"public_dashboard"`
}

// Validate rejects negative goals. A nil goal clears it.
func (p ProfileUpdate) Validate() error {
	if p.DailyCalorieGoal != nil && *p.DailyCalorieGoal < 0 {
		return Validationf("daily_calorie_goal must be >= 0")
	}
	if p.DailyProteinGoal != nil && *p.DailyProteinGoal < 0 {
		return Validationf("daily_protein_goal must be >= 0")
	}
	return nil
}

// NormalizeUsername lowercases and validates a username.
func NormalizeUsername(username string) (string, error) {
	u := strings.ToLower(strings.TrimSpace(username))
	if !usernamePattern.MatchString(u) {
		return "", Validationf("username must be 3-32 characters of a-z, 0-9, '_', '.', '-'")
	}
	return u, nil
}

// UserRepository defines operations for managing accounts and profiles
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*User, error)
}
