package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/flori/fittrack/internal/domain"
)

// fakeSessionRepo is an in-memory GymSessionRepository that enforces the
// one-active-session rule the way the unique index does.
type fakeSessionRepo struct {
	mu       sync.Mutex
	seq      int
	sessions map[string]*domain.GymSession
	// failRange makes ListByStartedRange fail for ranges starting at these times
	failRange map[time.Time]error
	err       error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*domain.GymSession{}, failRange: map[time.Time]error{}}
}

func clone(s *domain.GymSession) *domain.GymSession {
	c := *s
	c.Exercises = append([]*domain.Exercise(nil), s.Exercises...)
	return &c
}

func (f *fakeSessionRepo) Create(_ context.Context, s *domain.GymSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.sessions {
		if existing.UserID == s.UserID && existing.IsActive {
			return domain.ErrSessionAlreadyOpen
		}
	}
	f.seq++
	s.ID = fmt.Sprintf("s%03d", f.seq)
	f.sessions[s.ID] = clone(s)
	return nil
}

func (f *fakeSessionRepo) get(userID, id string) (*domain.GymSession, bool) {
	s, ok := f.sessions[id]
	if !ok || s.UserID != userID {
		return nil, false
	}
	return s, true
}

func (f *fakeSessionRepo) GetByID(_ context.Context, userID, id string) (*domain.GymSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.get(userID, id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return clone(s), nil
}

func (f *fakeSessionRepo) GetActive(_ context.Context, userID string) (*domain.GymSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.sessions {
		if s.UserID == userID && s.IsActive {
			return clone(s), nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) sorted(userID string) []*domain.GymSession {
	var out []*domain.GymSession
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, clone(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out
}

func (f *fakeSessionRepo) GetLatestCompleted(_ context.Context, userID string) (*domain.GymSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sorted(userID) {
		if !s.IsActive {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) List(_ context.Context, userID string, page, limit int) (*domain.SessionPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.sorted(userID)
	start := (page - 1) * limit
	data := []*domain.GymSession{}
	for i := start; i < len(all) && i < start+limit; i++ {
		data = append(data, all[i])
	}
	return &domain.SessionPage{Data: data, Page: page, Limit: limit, Total: int64(len(all))}, nil
}

func (f *fakeSessionRepo) ListByStartedRange(_ context.Context, userID string, from, to time.Time) ([]*domain.GymSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failRange[from]; ok {
		return nil, err
	}
	var out []*domain.GymSession
	for _, s := range f.sorted(userID) {
		if !s.StartedAt.Before(from) && s.StartedAt.Before(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) AppendExercise(_ context.Context, userID, sessionID string, ex *domain.Exercise) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.get(userID, sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	if !s.IsActive {
		return domain.ErrSessionNotActive
	}
	s.Exercises = append(s.Exercises, ex)
	return nil
}

func (f *fakeSessionRepo) Complete(_ context.Context, userID, sessionID string, at time.Time) (*domain.GymSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.get(userID, sessionID)
	if !ok || !s.IsActive {
		return nil, domain.ErrSessionNotFound
	}
	s.IsActive = false
	s.CompletedAt = &at
	return clone(s), nil
}

func (f *fakeSessionRepo) Delete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.get(userID, id); !ok {
		return domain.ErrSessionNotFound
	}
	delete(f.sessions, id)
	return nil
}

type fakeWeightRepo struct {
	mu      sync.Mutex
	entries []*domain.WeightEntry
	err     error
}

func (f *fakeWeightRepo) Create(_ context.Context, e *domain.WeightEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = fmt.Sprintf("w%d", len(f.entries)+1)
	e.CreatedAt = time.Now()
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeWeightRepo) List(_ context.Context, userID string) ([]*domain.WeightEntry, error) {
	return f.ListByDateRange(context.Background(), userID, "", "9999-12-31")
}

func (f *fakeWeightRepo) ListByDateRange(_ context.Context, userID, from, to string) ([]*domain.WeightEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.WeightEntry
	for _, e := range f.entries {
		if e.UserID == userID && e.Date >= from && e.Date <= to {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeWeightRepo) Latest(ctx context.Context, userID string) (*domain.WeightEntry, error) {
	all, err := f.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	var best *domain.WeightEntry
	for _, e := range all {
		if best == nil || e.Date > best.Date || (e.Date == best.Date && e.CreatedAt.After(best.CreatedAt)) {
			best = e
		}
	}
	return best, nil
}

func (f *fakeWeightRepo) Delete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.entries {
		if e.ID == id && e.UserID == userID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return domain.ErrWeightEntryNotFound
}

type fakeFoodRepo struct {
	mu      sync.Mutex
	entries []*domain.FoodEntry
}

func (f *fakeFoodRepo) Create(_ context.Context, e *domain.FoodEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = fmt.Sprintf("f%d", len(f.entries)+1)
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeFoodRepo) ListByDate(ctx context.Context, userID, date string) ([]*domain.FoodEntry, error) {
	return f.ListByDateRange(ctx, userID, date, date)
}

func (f *fakeFoodRepo) ListByDateRange(_ context.Context, userID, from, to string) ([]*domain.FoodEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.FoodEntry
	for _, e := range f.entries {
		if e.UserID == userID && e.Date >= from && e.Date <= to {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeFoodRepo) Delete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.entries {
		if e.ID == id && e.UserID == userID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return domain.ErrFoodEntryNotFound
}

type fakeSavedFoodRepo struct {
	mu    sync.Mutex
	foods []*domain.SavedFood
	err   error
}

func (f *fakeSavedFoodRepo) Create(_ context.Context, s *domain.SavedFood) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	s.ID = fmt.Sprintf("t%d", len(f.foods)+1)
	f.foods = append(f.foods, s)
	return nil
}

func (f *fakeSavedFoodRepo) GetByID(_ context.Context, userID, id string) (*domain.SavedFood, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.foods {
		if s.ID == id && s.UserID == userID {
			return s, nil
		}
	}
	return nil, domain.ErrSavedFoodNotFound
}

func (f *fakeSavedFoodRepo) List(_ context.Context, userID string) ([]*domain.SavedFood, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.SavedFood
	for _, s := range f.foods {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSavedFoodRepo) Delete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.foods {
		if s.ID == id && s.UserID == userID {
			f.foods = append(f.foods[:i], f.foods[i+1:]...)
			return nil
		}
	}
	return domain.ErrSavedFoodNotFound
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[string]*domain.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return domain.ErrUsernameTaken
		}
	}
	u.ID = fmt.Sprintf("u%d", len(f.users)+1)
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id string, p domain.ProfileUpdate) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.DailyCalorieGoal = p.DailyCalorieGoal
	u.DailyProteinGoal = p.DailyProteinGoal
	u.PublicDashboard = p.PublicDashboard
	return u, nil
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	return fmt.Errorf("not used")
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return fmt.Errorf("not used")
}

func (f *fakeCache) GetRaw(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return nil, domain.ErrCacheMiss
}

func (f *fakeCache) SetRaw(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			delete(f.data, k)
		}
	}
	return nil
}

type fakeFiles struct {
	uploads map[string][]byte
	err     error
}

func (f *fakeFiles) Upload(_ context.Context, file []byte, filename string, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[filename] = file
	return "https://files.test/" + filename, nil
}
