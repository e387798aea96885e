package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flori/fittrack/internal/config"
	"github.com/flori/fittrack/internal/domain"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentMonths bounds the per-month fetches of the consistency calendar
const maxConcurrentMonths = 6

// DashboardService derives KPIs and calendar views from raw records on every call
type DashboardService struct {
	weightRepo  domain.WeightRepository
	foodRepo    domain.FoodRepository
	sessionRepo domain.GymSessionRepository
	userRepo    domain.UserRepository
	calendar    config.CalendarConfig
	now         func() time.Time
	metrics     *serviceMetrics
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(
	weightRepo domain.WeightRepository,
	foodRepo domain.FoodRepository,
	sessionRepo domain.GymSessionRepository,
	userRepo domain.UserRepository,
	calendar config.CalendarConfig,
) *DashboardService {
	return &DashboardService{
		weightRepo:  weightRepo,
		foodRepo:    foodRepo,
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		calendar:    calendar.Defaults(),
		now:         time.Now,
		metrics:     newServiceMetrics(),
	}
}

// KPI returns current weight, today's food totals and this week's completed session count
func (s *DashboardService) KPI(ctx context.Context, userID string) (*domain.DashboardKPI, error) {
	loc := s.calendar.Location
	now := s.now().In(loc)
	today := domain.DateOf(now, loc)
	weekFrom := domain.WeekStart(now, s.calendar.WeekStart, loc)

	var (
		latest   *domain.WeightEntry
		food     []*domain.FoodEntry
		sessions []*domain.GymSession
		user     *domain.User
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		latest, err = s.weightRepo.Latest(gCtx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		food, err = s.foodRepo.ListByDate(gCtx, userID, today)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = s.sessionRepo.ListByStartedRange(gCtx, userID, weekFrom, weekFrom.AddDate(0, 0, 7))
		return err
	})
	g.Go(func() error {
		var err error
		user, err = s.userRepo.GetByID(gCtx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var weights []*domain.WeightEntry
	if latest != nil {
		weights = append(weights, latest)
	}

	kpi := domain.BuildKPI(weights, food, sessions, weekFrom)
	kpi.CalorieGoal = user.DailyCalorieGoal
	kpi.ProteinGoal = user.DailyProteinGoal
	return kpi, nil
}

// CalendarMonth returns everything logged in one month, grouped by date
func (s *DashboardService) CalendarMonth(ctx context.Context, userID string, year, month int) (*domain.CalendarMonth, error) {
	m, err := domain.NewMonth(year, month)
	if err != nil {
		return nil, err
	}
	return s.calendarMonth(ctx, userID, m)
}

func (s *DashboardService) calendarMonth(ctx context.Context, userID string, m domain.Month) (*domain.CalendarMonth, error) {
	loc := s.calendar.Location
	from, to := m.DateRange()

	var (
		weights  []*domain.WeightEntry
		food     []*domain.FoodEntry
		sessions []*domain.GymSession
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		weights, err = s.weightRepo.ListByDateRange(gCtx, userID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		food, err = s.foodRepo.ListByDateRange(gCtx, userID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = s.sessionRepo.ListByStartedRange(gCtx, userID, m.First(loc), m.Next().First(loc))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return domain.BuildCalendarMonth(m, weights, food, sessions, loc), nil
}

// SessionDates collects the dates of completed sessions from the epoch month through
// next month. Months are fetched concurrently and merged as a set union. A month that
// fails is logged and skipped; only when every month fails is an error returned.
func (s *DashboardService) SessionDates(ctx context.Context, userID string) (map[string]bool, error) {
	loc := s.calendar.Location
	last := domain.MonthOf(s.now(), loc).Next()
	months := s.calendar.Epoch.MonthsThrough(last)
	if len(months) == 0 {
		return map[string]bool{}, nil
	}

	results := make([]*domain.CalendarMonth, len(months))
	var (
		mu       sync.Mutex
		failed   int
		firstErr error
	)

	var g errgroup.Group
	g.SetLimit(maxConcurrentMonths)
	for i, m := range months {
		g.Go(func() error {
			cal, err := s.calendarMonth(ctx, userID, m)
			if err != nil {
				mu.Lock()
				failed++
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()

				add(ctx, s.metrics.monthFetchFailures, attribute.String("month", m.String()))
				logrus.WithError(err).WithFields(logrus.Fields{
					"user_id": userID,
					"month":   m.String(),
				}).Warn("skipping calendar month")
				return nil
			}
			results[i] = cal
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if failed == len(months) {
		return nil, fmt.Errorf("all %d calendar months failed: %w", failed, firstErr)
	}

	return domain.CompletedSessionDates(results), nil
}

// Consistency lays out the workout/rest/future calendar from the epoch month through next month
func (s *DashboardService) Consistency(ctx context.Context, userID string) ([]domain.MonthPanel, error) {
	dates, err := s.SessionDates(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := s.now().In(s.calendar.Location)
	return domain.BuildConsistencyCalendar(dates, today, s.calendar.Epoch), nil
}
