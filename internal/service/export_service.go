package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/flori/fittrack/internal/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrExportUnavailable is returned when no export storage is configured
var ErrExportUnavailable = domain.NewError(domain.ErrTransient, "export storage is not configured")

const (
	exportFirstDate = "0001-01-01"
	exportLastDate  = "9999-12-31"
)

// ExportService writes a JSON snapshot of all of a user's records to file storage
type ExportService struct {
	userRepo    domain.UserRepository
	weightRepo  domain.WeightRepository
	foodRepo    domain.FoodRepository
	savedRepo   domain.SavedFoodRepository
	sessionRepo domain.GymSessionRepository
	files       domain.FileRepository
	now         func() time.Time
}

// NewExportService creates the export service. files may be nil, which disables exports.
func NewExportService(
	userRepo domain.UserRepository,
	weightRepo domain.WeightRepository,
	foodRepo domain.FoodRepository,
	savedRepo domain.SavedFoodRepository,
	sessionRepo domain.GymSessionRepository,
	files domain.FileRepository,
) *ExportService {
	return &ExportService{
		userRepo:    userRepo,
		weightRepo:  weightRepo,
		foodRepo:    foodRepo,
		savedRepo:   savedRepo,
		sessionRepo: sessionRepo,
		files:       files,
		now:         time.Now,
	}
}

// ExportResult points at the uploaded snapshot
type ExportResult struct {
	URL        string `json:"url"`
	ExportedAt string `json:"exported_at"`
}

// Snapshot gathers every record of the user
func (s *ExportService) Snapshot(ctx context.Context, userID string) (*domain.Export, error) {
	out := &domain.Export{ExportedAt: s.now().UTC().Format(time.RFC3339)}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Profile, err = s.userRepo.GetByID(gCtx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		out.Weights, err = s.weightRepo.List(gCtx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		out.Food, err = s.foodRepo.ListByDateRange(gCtx, userID, exportFirstDate, exportLastDate)
		return err
	})
	g.Go(func() error {
		var err error
		out.SavedFoods, err = s.savedRepo.List(gCtx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		out.Sessions, err = s.sessionRepo.ListByStartedRange(gCtx, userID, time.Time{}, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Export uploads the snapshot and returns where it was stored
func (s *ExportService) Export(ctx context.Context, userID string) (*ExportResult, error) {
	if s.files == nil {
		return nil, ErrExportUnavailable
	}

	snapshot, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	filename := fmt.Sprintf("exports/%s/%s.json", userID, s.now().UTC().Format("20060102T150405Z"))
	url, err := s.files.Upload(ctx, data, filename, "application/json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "file": filename, "bytes": len(data)}).Info("export uploaded")
	return &ExportResult{URL: url, ExportedAt: snapshot.ExportedAt}, nil
}
