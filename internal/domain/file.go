package domain

import (
	"context"
)

// FileRepository defines the interface for file storage operations
type FileRepository interface {
	// Upload saves a file and returns its access URL
	Upload(ctx context.Context, file []byte, filename string, contentType string) (string, error)
}

// Export is a full snapshot of one user's records
type Export struct {
	ExportedAt string         `json:"exported_at"`
	Profile    *User          `json:"profile"`
	Weights    []*WeightEntry `json:"weights"`
	Food       []*FoodEntry   `json:"food"`
	SavedFoods []*SavedFood   `json:"saved_foods"`
	Sessions   []*GymSession  `json:"sessions"`
}
