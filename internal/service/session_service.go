package service

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/flori/fittrack/internal/domain"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	maxPage          = 100000
)

// SessionService runs the workout session lifecycle:
// no active session -> active (exercises appended) -> completed (read-only).
// It keeps no state of its own; the record store is the source of truth.
type SessionService struct {
	sessionRepo domain.GymSessionRepository
	now         func() time.Time
	newID       func() string
	metrics     *serviceMetrics
}

func NewSessionService(sessionRepo domain.GymSessionRepository) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       generateULID,
		metrics:     newServiceMetrics(),
	}
}

// generateULID creates a new ULID string
func generateULID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// StartSession opens a new active session after validating the plan's day type.
func (s *SessionService) StartSession(ctx context.Context, userID string, plan domain.Plan, dayType string) (*domain.GymSession, error) {
	if err := plan.ValidateDayType(dayType); err != nil {
		return nil, err
	}

	// Fast path; the store's unique index still decides concurrent starts
	active, err := s.sessionRepo.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, domain.ErrSessionAlreadyOpen
	}

	session := &domain.GymSession{
		UserID:    userID,
		Plan:      plan,
		DayType:   dayType,
		Exercises: []*domain.Exercise{},
		IsActive:  true,
		StartedAt: s.now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	add(ctx, s.metrics.sessionsStarted, attribute.String("plan", string(plan)))
	logrus.WithFields(logrus.Fields{
		"user_id":    userID,
		"session_id": session.ID,
		"plan":       plan,
		"day_type":   dayType,
	}).Info("workout session started")

	return session, nil
}

// AddExercise appends an exercise with sets numbered 1..N to an active session.
func (s *SessionService) AddExercise(ctx context.Context, userID, sessionID, name string, sets []domain.SetInput) (*domain.Exercise, error) {
	ex, err := domain.NewExercise(sessionID, name, sets, s.newID)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.AppendExercise(ctx, userID, sessionID, ex); err != nil {
		return nil, err
	}
	return ex, nil
}

// CompleteSession closes an active session. Missing or already completed sessions are not found.
func (s *SessionService) CompleteSession(ctx context.Context, userID, sessionID string) (*domain.GymSession, error) {
	session, err := s.sessionRepo.Complete(ctx, userID, sessionID, s.now())
	if err != nil {
		return nil, err
	}

	add(ctx, s.metrics.sessionsCompleted, attribute.String("plan", string(session.Plan)))
	logrus.WithFields(logrus.Fields{
		"user_id":    userID,
		"session_id": sessionID,
		"exercises":  len(session.Exercises),
		"volume":     session.Volume(),
	}).Info("workout session completed")

	return session, nil
}

// DeleteSession removes a session in any state together with its exercises and sets.
func (s *SessionService) DeleteSession(ctx context.Context, userID, sessionID string) error {
	if err := s.sessionRepo.Delete(ctx, userID, sessionID); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "session_id": sessionID}).Info("workout session deleted")
	return nil
}

func (s *SessionService) GetSession(ctx context.Context, userID, sessionID string) (*domain.GymSession, error) {
	return s.sessionRepo.GetByID(ctx, userID, sessionID)
}

// GetActive returns ErrNoActiveSession when nothing is in progress.
func (s *SessionService) GetActive(ctx context.Context, userID string) (*domain.GymSession, error) {
	session, err := s.sessionRepo.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNoActiveSession
	}
	return session, nil
}

// GetLatestCompleted returns the completed session with the latest start.
func (s *SessionService) GetLatestCompleted(ctx context.Context, userID string) (*domain.GymSession, error) {
	session, err := s.sessionRepo.GetLatestCompleted(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNoCompletedSessions
	}
	return session, nil
}

// ListSessions pages newest-first. page < 1 becomes 1 and pages past maxPage are rejected;
// limit is clamped to 1..100, default 20.
func (s *SessionService) ListSessions(ctx context.Context, userID string, page, limit int) (*domain.SessionPage, error) {
	switch {
	case page < 1:
		page = 1
	case page > maxPage:
		return nil, domain.Validationf("page must be <= %d", maxPage)
	}
	switch {
	case limit <= 0:
		limit = defaultPageLimit
	case limit > maxPageLimit:
		limit = maxPageLimit
	}
	return s.sessionRepo.List(ctx, userID, page, limit)
}
