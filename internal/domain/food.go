package domain

import (
	"context"
	"strings"
	"time"
)

var (
	ErrFoodEntryNotFound = NewError(ErrNotFound, "food entry not found")
	ErrSavedFoodNotFound = NewError(ErrNotFound, "saved food not found")
)

// maxCalories bounds a single entry; anything above is treated as a typo.
const maxCalories = 20000

// FoodEntry is one logged food item on a date
type FoodEntry struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"-" bson:"user_id"`
	Date      string    `json:"date" bson:"date"` // YYYY-MM-DD
	Time      string    `json:"time" bson:"time"` // HH:MM
	Name      string    `json:"name" bson:"name"`
	Calories  int       `json:"calories" bson:"calories"`
	Protein   int       `json:"protein" bson:"protein"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Validate checks the caller-supplied fields, trims the name and zero-pads the time.
func (f *FoodEntry) Validate() error {
	if _, err := ParseDate(f.Date); err != nil {
		return err
	}
	clock, err := NormalizeTime(f.Time)
	if err != nil {
		return err
	}
	f.Time = clock
	return validateNutrition(&f.Name, f.Calories, f.Protein)
}

// SavedFood is a reusable template used to pre-fill a FoodEntry
type SavedFood struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"-" bson:"user_id"`
	Name      string    `json:"name" bson:"name"`
	Calories  int       `json:"calories" bson:"calories"`
	Protein   int       `json:"protein" bson:"protein"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Validate checks the template fields and trims the name.
func (s *SavedFood) Validate() error {
	return validateNutrition(&s.Name, s.Calories, s.Protein)
}

// Instantiate copies the template onto a new FoodEntry for the given date and time.
func (s *SavedFood) Instantiate(date, clock string) *FoodEntry {
	return &FoodEntry{
		UserID:   s.UserID,
		Date:     date,
		Time:     clock,
		Name:     s.Name,
		Calories: s.Calories,
		Protein:  s.Protein,
	}
}

func validateNutrition(name *string, calories, protein int) error {
	*name = strings.TrimSpace(*name)
	if *name == "" {
		return Validationf("name must not be empty")
	}
	if calories < 0 || calories > maxCalories {
		return Validationf("calories must be between 0 and %d", maxCalories)
	}
	if protein < 0 {
		return Validationf("protein must be >= 0")
	}
	return nil
}

// FoodRepository persists food entries
type FoodRepository interface {
	Create(ctx context.Context, entry *FoodEntry) error
	// ListByDate returns entries for one date ordered by time
	ListByDate(ctx context.Context, userID, date string) ([]*FoodEntry, error)
	// ListByDateRange returns entries with from <= date <= to
	ListByDateRange(ctx context.Context, userID, from, to string) ([]*FoodEntry, error)
	Delete(ctx context.Context, userID, id string) error
}

// SavedFoodRepository persists saved-food templates
type SavedFoodRepository interface {
	Create(ctx context.Context, food *SavedFood) error
	GetByID(ctx context.Context, userID, id string) (*SavedFood, error)
	List(ctx context.Context, userID string) ([]*SavedFood, error)
	Delete(ctx context.Context, userID, id string) error
}
