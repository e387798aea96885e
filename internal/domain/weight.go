package domain

import (
	"context"
	"time"
)

var ErrWeightEntryNotFound = NewError(ErrNotFound, "weight entry not found")

// WeightEntry is a body-weight measurement on a calendar date. Immutable once created.
type WeightEntry struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"-" bson:"user_id"`
	Date      string    `json:"date" bson:"date"` // YYYY-MM-DD
	WeightKg  float64   `json:"weight" bson:"weight_kg"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Validate checks the caller-supplied fields.
func (w *WeightEntry) Validate() error {
	if _, err := ParseDate(w.Date); err != nil {
		return err
	}
	if w.WeightKg <= 0 {
		return Validationf("weight must be > 0")
	}
	return nil
}

// WeightRepository persists weight entries
type WeightRepository interface {
	Create(ctx context.Context, entry *WeightEntry) error
	// List returns all entries for a user, oldest date first
	List(ctx context.Context, userID string) ([]*WeightEntry, error)
	// ListByDateRange returns entries with from <= date <= to (inclusive, YYYY-MM-DD)
	ListByDateRange(ctx context.Context, userID, from, to string) ([]*WeightEntry, error)
	// Latest returns the entry with the max date, ties broken by most recently created; nil if none
	Latest(ctx context.Context, userID string) (*WeightEntry, error)
	Delete(ctx context.Context, userID, id string) error
}
