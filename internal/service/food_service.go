package service

import (
	"context"
	"errors"
	"time"

	"github.com/flori/fittrack/internal/domain"
	"github.com/sirupsen/logrus"
)

// FoodService logs food entries and manages saved-food templates
type FoodService struct {
	foodRepo  domain.FoodRepository
	savedRepo domain.SavedFoodRepository
	userRepo  domain.UserRepository
	location  *time.Location
	now       func() time.Time
}

func NewFoodService(
	foodRepo domain.FoodRepository,
	savedRepo domain.SavedFoodRepository,
	userRepo domain.UserRepository,
	location *time.Location,
) *FoodService {
	if location == nil {
		location = time.UTC
	}
	return &FoodService{
		foodRepo:  foodRepo,
		savedRepo: savedRepo,
		userRepo:  userRepo,
		location:  location,
		now:       time.Now,
	}
}

// FoodInput is a food entry as submitted by the client
type FoodInput struct {
	Date           string `json:"date"`
	Time           string `json:"time"`
	Name           string `json:"name"`
	Calories       int    `json:"calories"`
	Protein        int    `json:"protein"`
	SaveAsTemplate bool   `json:"save_as_template"`
}

// FoodCreated is the entry plus the template saved alongside it. TemplateError is set
// when the template was requested but could not be written.
type FoodCreated struct {
	*domain.FoodEntry
	SavedFood     *domain.SavedFood `json:"saved_food,omitempty"`
	TemplateError string            `json:"template_error,omitempty"`
}

// today returns the current date and HH:MM in the configured location
func (s *FoodService) today() (string, string) {
	now := s.now().In(s.location)
	return now.Format(domain.DateLayout), now.Format(domain.TimeLayout)
}

// Create logs a food entry; empty date or time default to now. With SaveAsTemplate a
// SavedFood is written after the entry. A failed template write does not undo the
// entry; it is logged and reported in TemplateError.
func (s *FoodService) Create(ctx context.Context, userID string, in FoodInput) (*FoodCreated, error) {
	date, clock := s.today()
	if in.Date != "" {
		date = in.Date
	}
	if in.Time != "" {
		clock = in.Time
	}

	entry := &domain.FoodEntry{
		UserID:   userID,
		Date:     date,
		Time:     clock,
		Name:     in.Name,
		Calories: in.Calories,
		Protein:  in.Protein,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if err := s.foodRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	out := &FoodCreated{FoodEntry: entry}
	if !in.SaveAsTemplate {
		return out, nil
	}

	tpl := &domain.SavedFood{
		UserID:   userID,
		Name:     entry.Name,
		Calories: entry.Calories,
		Protein:  entry.Protein,
	}
	if err := s.savedRepo.Create(ctx, tpl); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":  userID,
			"entry_id": entry.ID,
		}).Warn("food entry saved but template was not")
		out.TemplateError = templateErrorMessage(err)
		return out, nil
	}
	out.SavedFood = tpl
	return out, nil
}

// templateErrorMessage keeps domain messages and hides store internals
func templateErrorMessage(err error) string {
	var de *domain.Error
	if errors.As(err, &de) && !errors.Is(err, domain.ErrTransient) {
		return "saved food not created: " + de.Msg
	}
	return "saved food not created: record store unavailable"
}

// ListByDate returns the entries of one date; an empty date means today
func (s *FoodService) ListByDate(ctx context.Context, userID, date string) ([]*domain.FoodEntry, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}
	return s.foodRepo.ListByDate(ctx, userID, date)
}

func (s *FoodService) Delete(ctx context.Context, userID, id string) error {
	return s.foodRepo.Delete(ctx, userID, id)
}

// Summary totals one date against the profile goals; an empty date means today
func (s *FoodService) Summary(ctx context.Context, userID, date string) (*domain.FoodDaySummary, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}

	entries, err := s.foodRepo.ListByDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return domain.BuildFoodDaySummary(date, entries, user), nil
}

func (s *FoodService) resolveDate(date string) (string, error) {
	if date == "" {
		today, _ := s.today()
		return today, nil
	}
	if _, err := domain.ParseDate(date); err != nil {
		return "", err
	}
	return date, nil
}

// SavedFoodInput is a template as submitted by the client
type SavedFoodInput struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
	Protein  int    `json:"protein"`
}

func (s *FoodService) CreateSavedFood(ctx context.Context, userID string, in SavedFoodInput) (*domain.SavedFood, error) {
	food := &domain.SavedFood{
		UserID:   userID,
		Name:     in.Name,
		Calories: in.Calories,
		Protein:  in.Protein,
	}
	if err := food.Validate(); err != nil {
		return nil, err
	}
	if err := s.savedRepo.Create(ctx, food); err != nil {
		return nil, err
	}
	return food, nil
}

func (s *FoodService) ListSavedFoods(ctx context.Context, userID string) ([]*domain.SavedFood, error) {
	return s.savedRepo.List(ctx, userID)
}

func (s *FoodService) DeleteSavedFood(ctx context.Context, userID, id string) error {
	return s.savedRepo.Delete(ctx, userID, id)
}

// LogSavedFood instantiates a template as a food entry; empty date or time default to now
func (s *FoodService) LogSavedFood(ctx context.Context, userID, id, date, clock string) (*domain.FoodEntry, error) {
	tpl, err := s.savedRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	today, nowClock := s.today()
	if date == "" {
		date = today
	}
	if clock == "" {
		clock = nowClock
	}

	entry := tpl.Instantiate(date, clock)
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if err := s.foodRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
