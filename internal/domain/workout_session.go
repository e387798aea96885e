package domain

import (
	"context"
	"strings"
	"time"
)

var (
	ErrSessionNotFound     = NewError(ErrNotFound, "workout session not found")
	ErrSessionAlreadyOpen  = NewError(ErrConflict, "another workout session is already active")
	ErrSessionNotActive    = NewError(ErrConflict, "workout session is already completed")
	ErrNoActiveSession     = NewError(ErrNotFound, "no active workout session")
	ErrNoCompletedSessions = NewError(ErrNotFound, "no completed workout session")
)

// Plan is a training split
type Plan string

const (
	PlanPPL   Plan = "PPL"
	PlanULPPL Plan = "ULPPL"
	PlanFBEOD Plan = "FBEOD"
	PlanOther Plan = "Other"
)

// planDayTypes is the fixed plan -> allowed day type table.
var planDayTypes = map[Plan][]string{
	PlanPPL:   {"Push", "Pull", "Legs"},
	PlanULPPL: {"Upper", "Lower", "Push", "Pull", "Legs"},
	PlanFBEOD: {"Full Body"},
	PlanOther: {"Custom"},
}

// ValidateDayType checks that the plan exists and allows dayType.
func (p Plan) ValidateDayType(dayType string) error {
	allowed, ok := planDayTypes[p]
	if !ok {
		return Validationf("unknown plan %q", p)
	}
	for _, d := range allowed {
		if d == dayType {
			return nil
		}
	}
	return Validationf("day type %q is not part of plan %s (allowed: %s)", dayType, p, strings.Join(allowed, ", "))
}

// ExerciseSet is one weight x reps unit within an exercise
type ExerciseSet struct {
	ID         string  `json:"id" bson:"id"` // ULID
	ExerciseID string  `json:"exercise_id" bson:"exercise_id"`
	WeightKg   float64 `json:"weight" bson:"weight_kg"`
	Reps       int     `json:"reps" bson:"reps"`
	SetNumber  int     `json:"set_number" bson:"set_number"` // 1-based, assigned at creation
}

// Exercise is a named movement performed in a session. Never mutated once appended.
type Exercise struct {
	ID        string         `json:"id" bson:"id"` // ULID
	SessionID string         `json:"session_id" bson:"session_id"`
	Name      string         `json:"name" bson:"name"`
	Sets      []*ExerciseSet `json:"sets" bson:"sets"`
}

// Volume is sum(weight * reps) over the exercise's sets
func (e *Exercise) Volume() float64 {
	var v float64
	for _, s := range e.Sets {
		v += s.WeightKg * float64(s.Reps)
	}
	return v
}

// GymSession is one gym visit
type GymSession struct {
	ID          string      `json:"id" bson:"_id,omitempty"`
	UserID      string      `json:"-" bson:"user_id"`
	Plan        Plan        `json:"plan" bson:"plan"`
	DayType     string      `json:"day_type" bson:"day_type"`
	Exercises   []*Exercise `json:"exercises" bson:"exercises"`
	IsActive    bool        `json:"is_active" bson:"is_active"`
	StartedAt   time.Time   `json:"started_at" bson:"started_at"`
	CompletedAt *time.Time  `json:"completed_at" bson:"completed_at,omitempty"`
}

// Volume is the session's total volume. Derived, never stored.
func (s *GymSession) Volume() float64 {
	var v float64
	for _, e := range s.Exercises {
		v += e.Volume()
	}
	return v
}

// SetInput is a caller-supplied set before numbering
type SetInput struct {
	WeightKg float64 `json:"weight"`
	Reps     int     `json:"reps"`
}

// NewExercise validates the input and builds an Exercise whose sets are numbered 1..N
// in input order. newID supplies ids for the exercise and each set.
func NewExercise(sessionID, name string, sets []SetInput, newID func() string) (*Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Validationf("exercise name must not be empty")
	}
	if len(sets) == 0 {
		return nil, Validationf("exercise must have at least one set")
	}

	ex := &Exercise{
		ID:        newID(),
		SessionID: sessionID,
		Name:      name,
		Sets:      make([]*ExerciseSet, len(sets)),
	}
	for i, in := range sets {
		if in.WeightKg <= 0 {
			return nil, Validationf("set %d: weight must be > 0", i+1)
		}
		if in.Reps <= 0 {
			return nil, Validationf("set %d: reps must be > 0", i+1)
		}
		ex.Sets[i] = &ExerciseSet{
			ID:         newID(),
			ExerciseID: ex.ID,
			WeightKg:   in.WeightKg,
			Reps:       in.Reps,
			SetNumber:  i + 1,
		}
	}
	return ex, nil
}

// SessionPage is one page of sessions, newest first
type SessionPage struct {
	Data  []*GymSession `json:"data"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int64         `json:"total"`
}

// GymSessionRepository is the record store for sessions. Exercises and sets are embedded
// in the session document, so every call is a single atomic write.
type GymSessionRepository interface {
	// Create inserts an active session. Returns ErrSessionAlreadyOpen if the user already
	// has one; the check is enforced by the store, not by the caller.
	Create(ctx context.Context, session *GymSession) error
	GetByID(ctx context.Context, userID, id string) (*GymSession, error)
	// GetActive returns the user's active session or nil
	GetActive(ctx context.Context, userID string) (*GymSession, error)
	// GetLatestCompleted returns the completed session with the latest StartedAt or nil
	GetLatestCompleted(ctx context.Context, userID string) (*GymSession, error)
	List(ctx context.Context, userID string, page, limit int) (*SessionPage, error)
	// ListByStartedRange returns sessions with from <= StartedAt < to
	ListByStartedRange(ctx context.Context, userID string, from, to time.Time) ([]*GymSession, error)
	// AppendExercise pushes ex onto an active session. Returns ErrSessionNotActive for a
	// completed session and ErrSessionNotFound for a missing one.
	AppendExercise(ctx context.Context, userID, sessionID string, ex *Exercise) error
	// Complete flips an active session to completed. Missing or completed -> ErrSessionNotFound.
	Complete(ctx context.Context, userID, sessionID string, at time.Time) (*GymSession, error)
	Delete(ctx context.Context, userID, id string) error
}
