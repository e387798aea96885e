package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKPI(t *testing.T) {
	weekFrom := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC) // Monday
	weights := []*WeightEntry{
		{Date: "2025-06-01", WeightKg: 70},
		{Date: "2025-06-10", WeightKg: 72},
	}
	food := []*FoodEntry{
		{Calories: 300, Protein: 20},
		{Calories: 500, Protein: 40},
	}
	sessions := []*GymSession{
		{StartedAt: weekFrom.Add(30 * time.Hour)},
		{StartedAt: weekFrom.Add(50 * time.Hour), IsActive: true},
		{StartedAt: weekFrom.Add(-time.Hour)},
		{StartedAt: weekFrom.AddDate(0, 0, 7)},
	}

	kpi := BuildKPI(weights, food, sessions, weekFrom)

	require.NotNil(t, kpi.CurrentWeight)
	assert.Equal(t, 72.0, *kpi.CurrentWeight)
	assert.Equal(t, 800, kpi.TodayCalories)
	assert.Equal(t, 60, kpi.TodayProtein)
	assert.Equal(t, 1, kpi.WeekSessionCount)
}

func TestBuildKPIEmpty(t *testing.T) {
	kpi := BuildKPI(nil, nil, nil, time.Now())
	assert.Nil(t, kpi.CurrentWeight)
	assert.Zero(t, kpi.TodayCalories)
	assert.Zero(t, kpi.WeekSessionCount)
}

func TestCurrentWeightTieBreak(t *testing.T) {
	base := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	entries := []*WeightEntry{
		{Date: "2025-06-10", WeightKg: 72, CreatedAt: base.Add(time.Hour)},
		{Date: "2025-06-10", WeightKg: 71.5, CreatedAt: base},
		{Date: "2025-06-09", WeightKg: 80, CreatedAt: base.Add(5 * time.Hour)},
	}
	w := CurrentWeight(entries)
	require.NotNil(t, w)
	assert.Equal(t, 72.0, *w)
}

func TestBuildCalendarMonth(t *testing.T) {
	m := Month{Year: 2025, Month: time.June}
	base := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	weights := []*WeightEntry{
		{Date: "2025-06-03", WeightKg: 70, CreatedAt: base},
		{Date: "2025-06-03", WeightKg: 69.5, CreatedAt: base.Add(time.Minute)},
		{Date: "2025-07-01", WeightKg: 68, CreatedAt: base},
	}
	food := []*FoodEntry{
		{Date: "2025-06-03", Calories: 300, Protein: 20},
		{Date: "2025-06-03", Calories: 200, Protein: 10},
		{Date: "2025-06-30", Calories: 100, Protein: 5},
		{Date: "2025-05-31", Calories: 999, Protein: 99},
	}
	sessions := []*GymSession{
		{ID: "b", Plan: PlanPPL, DayType: "Pull", StartedAt: time.Date(2025, 6, 20, 18, 0, 0, 0, time.UTC)},
		{ID: "a", Plan: PlanPPL, DayType: "Push", StartedAt: time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC), IsActive: true},
		{ID: "c", Plan: PlanPPL, DayType: "Legs", StartedAt: time.Date(2025, 7, 1, 1, 0, 0, 0, time.UTC)},
	}

	cal := BuildCalendarMonth(m, weights, food, sessions, time.UTC)

	assert.Equal(t, 2025, cal.Year)
	assert.Equal(t, 6, cal.Month)
	assert.Equal(t, map[string]float64{"2025-06-03": 69.5}, cal.Weights)
	assert.Equal(t, FoodDayTotal{TotalCalories: 500, TotalProtein: 30, EntryCount: 2}, cal.Food["2025-06-03"])
	assert.Equal(t, 1, cal.Food["2025-06-30"].EntryCount)
	assert.NotContains(t, cal.Food, "2025-05-31")
	require.Len(t, cal.Sessions, 2)
	assert.Equal(t, "a", cal.Sessions[0].ID)
	assert.False(t, cal.Sessions[0].Completed)
	assert.Equal(t, "2025-06-20", cal.Sessions[1].Date)
	assert.True(t, cal.Sessions[1].Completed)
}

func TestBuildCalendarMonthUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	m := Month{Year: 2025, Month: time.July}
	// 22:30 UTC on June 30 is already July 1 at UTC+3
	sessions := []*GymSession{{ID: "x", StartedAt: time.Date(2025, 6, 30, 22, 30, 0, 0, time.UTC)}}

	cal := BuildCalendarMonth(m, nil, nil, sessions, loc)
	require.Len(t, cal.Sessions, 1)
	assert.Equal(t, "2025-07-01", cal.Sessions[0].Date)
}

func TestBuildCalendarMonthEmpty(t *testing.T) {
	cal := BuildCalendarMonth(Month{Year: 2024, Month: time.February}, nil, nil, nil, time.UTC)
	require.NotNil(t, cal.Weights)
	require.NotNil(t, cal.Food)
	require.NotNil(t, cal.Sessions)
	assert.Empty(t, cal.Weights)
	assert.Empty(t, cal.Food)
	assert.Empty(t, cal.Sessions)
}

func TestCompletedSessionDates(t *testing.T) {
	months := []*CalendarMonth{
		{Sessions: []CalendarSession{{Date: "2025-06-02", Completed: true}, {Date: "2025-06-03"}}},
		nil,
		{Sessions: []CalendarSession{{Date: "2025-05-30", Completed: true}, {Date: "2025-06-02", Completed: true}}},
	}
	assert.Equal(t, map[string]bool{"2025-06-02": true, "2025-05-30": true}, CompletedSessionDates(months))
}

func TestBuildFoodDaySummary(t *testing.T) {
	goal, protein := 2000, 150
	user := &User{DailyCalorieGoal: &goal, DailyProteinGoal: &protein}
	entries := []*FoodEntry{{Calories: 1200, Protein: 90}, {Calories: 1000, Protein: 20}}

	sum := BuildFoodDaySummary("2025-06-15", entries, user)
	assert.Equal(t, 2200, sum.TotalCalories)
	assert.Equal(t, 2, sum.EntryCount)
	require.NotNil(t, sum.CaloriesRemaining)
	assert.Equal(t, -200, *sum.CaloriesRemaining)
	assert.Equal(t, 40, *sum.ProteinRemaining)

	bare := BuildFoodDaySummary("2025-06-15", entries, &User{})
	assert.Nil(t, bare.CalorieGoal)
	assert.Nil(t, bare.CaloriesRemaining)
}
