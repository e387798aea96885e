package domain

import (
	"sort"
	"time"
)

// DashboardKPI is the dashboard summary snapshot
type DashboardKPI struct {
	CurrentWeight    *float64 `json:"current_weight"`
	TodayCalories    int      `json:"today_calories"`
	TodayProtein     int      `json:"today_protein"`
	WeekSessionCount int      `json:"week_session_count"`
	CalorieGoal      *int     `json:"calorie_goal,omitempty"`
	ProteinGoal      *int     `json:"protein_goal,omitempty"`
}

// FoodDayTotal aggregates the food entries of one date
type FoodDayTotal struct {
	TotalCalories int `json:"total_calories"`
	TotalProtein  int `json:"total_protein"`
	EntryCount    int `json:"entry_count"`
}

// CalendarSession is the calendar's view of a session
type CalendarSession struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Plan      Plan   `json:"plan"`
	DayType   string `json:"day_type"`
	Completed bool   `json:"completed"`
}

// CalendarMonth is everything logged in one month, keyed by date
type CalendarMonth struct {
	Year     int                     `json:"year"`
	Month    int                     `json:"month"`
	Weights  map[string]float64      `json:"weights"`
	Food     map[string]FoodDayTotal `json:"food"`
	Sessions []CalendarSession       `json:"sessions"`
}

// FoodDaySummary is a single day's food totals against the profile goals
type FoodDaySummary struct {
	Date string `json:"date"`
	FoodDayTotal
	CalorieGoal       *int `json:"calorie_goal"`
	ProteinGoal       *int `json:"protein_goal"`
	CaloriesRemaining *int `json:"calories_remaining"`
	ProteinRemaining  *int `json:"protein_remaining"`
}

// CurrentWeight picks the entry with the latest date; ties go to the most recently created.
// Returns nil when there are no entries.
func CurrentWeight(entries []*WeightEntry) *float64 {
	var best *WeightEntry
	for _, e := range entries {
		if best == nil || e.Date > best.Date || (e.Date == best.Date && e.CreatedAt.After(best.CreatedAt)) {
			best = e
		}
	}
	if best == nil {
		return nil
	}
	w := best.WeightKg
	return &w
}

// SumFood totals calories, protein and entry count.
func SumFood(entries []*FoodEntry) FoodDayTotal {
	var t FoodDayTotal
	for _, e := range entries {
		t.TotalCalories += e.Calories
		t.TotalProtein += e.Protein
		t.EntryCount++
	}
	return t
}

// CountCompletedSince counts completed sessions with from <= StartedAt < to.
func CountCompletedSince(sessions []*GymSession, from, to time.Time) int {
	n := 0
	for _, s := range sessions {
		if s.IsActive {
			continue
		}
		if !s.StartedAt.Before(from) && s.StartedAt.Before(to) {
			n++
		}
	}
	return n
}

// BuildKPI derives the dashboard snapshot. todayFood must already be filtered to today's date;
// weekSessions may contain sessions outside the week and active sessions, both are ignored.
func BuildKPI(weights []*WeightEntry, todayFood []*FoodEntry, weekSessions []*GymSession, weekFrom time.Time) *DashboardKPI {
	food := SumFood(todayFood)
	return &DashboardKPI{
		CurrentWeight:    CurrentWeight(weights),
		TodayCalories:    food.TotalCalories,
		TodayProtein:     food.TotalProtein,
		WeekSessionCount: CountCompletedSince(weekSessions, weekFrom, weekFrom.AddDate(0, 0, 7)),
	}
}

// BuildCalendarMonth groups a month's records per date. Records outside the month are skipped.
// When several weights share a date the most recently created one wins.
func BuildCalendarMonth(m Month, weights []*WeightEntry, food []*FoodEntry, sessions []*GymSession, loc *time.Location) *CalendarMonth {
	from, to := m.DateRange()
	inMonth := func(d string) bool { return d >= from && d <= to }

	cal := &CalendarMonth{
		Year:     m.Year,
		Month:    int(m.Month),
		Weights:  map[string]float64{},
		Food:     map[string]FoodDayTotal{},
		Sessions: []CalendarSession{},
	}

	latest := map[string]time.Time{}
	for _, w := range weights {
		if !inMonth(w.Date) {
			continue
		}
		if seen, ok := latest[w.Date]; ok && !w.CreatedAt.After(seen) {
			continue
		}
		latest[w.Date] = w.CreatedAt
		cal.Weights[w.Date] = w.WeightKg
	}

	for _, f := range food {
		if !inMonth(f.Date) {
			continue
		}
		t := cal.Food[f.Date]
		t.TotalCalories += f.Calories
		t.TotalProtein += f.Protein
		t.EntryCount++
		cal.Food[f.Date] = t
	}

	for _, s := range sessions {
		d := DateOf(s.StartedAt, loc)
		if !inMonth(d) {
			continue
		}
		cal.Sessions = append(cal.Sessions, CalendarSession{
			ID:        s.ID,
			Date:      d,
			Plan:      s.Plan,
			DayType:   s.DayType,
			Completed: !s.IsActive,
		})
	}
	sort.SliceStable(cal.Sessions, func(i, j int) bool {
		return cal.Sessions[i].Date < cal.Sessions[j].Date
	})

	return cal
}

// CompletedSessionDates merges the completed-session dates of several months into a set.
// Order of the input does not matter.
func CompletedSessionDates(months []*CalendarMonth) map[string]bool {
	dates := map[string]bool{}
	for _, m := range months {
		if m == nil {
			continue
		}
		for _, s := range m.Sessions {
			if s.Completed {
				dates[s.Date] = true
			}
		}
	}
	return dates
}

// BuildFoodDaySummary compares a day's totals with the user's goals.
func BuildFoodDaySummary(date string, entries []*FoodEntry, user *User) *FoodDaySummary {
	sum := &FoodDaySummary{Date: date, FoodDayTotal: SumFood(entries)}
	if user == nil {
		return sum
	}
	sum.CalorieGoal = user.DailyCalorieGoal
	sum.ProteinGoal = user.DailyProteinGoal
	if g := user.DailyCalorieGoal; g != nil {
		r := *g - sum.TotalCalories
		sum.CaloriesRemaining = &r
	}
	if g := user.DailyProteinGoal; g != nil {
		r := *g - sum.TotalProtein
		sum.ProteinRemaining = &r
	}
	return sum
}
