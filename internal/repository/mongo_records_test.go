package repository

import (
	"context"
	"testing"

	"github.com/flori/fittrack/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoRecordRepositories(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		users := NewMongoUserRepository(db)

		u := &domain.User{Username: "ana", PasswordHash: "hash"}
		require.NoError(t, users.Create(ctx, u))
		require.NotEmpty(t, u.ID)

		assert.ErrorIs(t, users.Create(ctx, &domain.User{Username: "ana"}), domain.ErrUsernameTaken)

		got, err := users.GetByUsername(ctx, "ana")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, "hash", got.PasswordHash)
		assert.Nil(t, got.DailyCalorieGoal)

		goal := 2200
		updated, err := users.UpdateProfile(ctx, u.ID, domain.ProfileUpdate{DailyCalorieGoal: &goal, PublicDashboard: true})
		require.NoError(t, err)
		require.NotNil(t, updated.DailyCalorieGoal)
		assert.Equal(t, 2200, *updated.DailyCalorieGoal)
		assert.True(t, updated.PublicDashboard)

		_, err = users.GetByID(ctx, "64b7f0c2a1b2c3d4e5f60718")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("weights", func(t *testing.T) {
		weights := NewMongoWeightRepository(db)

		latest, err := weights.Latest(ctx, "u1")
		require.NoError(t, err)
		assert.Nil(t, latest)

		for _, e := range []*domain.WeightEntry{
			{UserID: "u1", Date: "2025-06-10", WeightKg: 72},
			{UserID: "u1", Date: "2025-06-01", WeightKg: 70},
			{UserID: "u1", Date: "2025-06-10", WeightKg: 71.8},
			{UserID: "u2", Date: "2025-07-01", WeightKg: 90},
		} {
			require.NoError(t, weights.Create(ctx, e))
		}

		all, err := weights.List(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "2025-06-01", all[0].Date)

		latest, err = weights.Latest(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 71.8, latest.WeightKg)

		june, err := weights.ListByDateRange(ctx, "u1", "2025-06-02", "2025-06-30")
		require.NoError(t, err)
		assert.Len(t, june, 2)

		assert.ErrorIs(t, weights.Delete(ctx, "u2", all[0].ID), domain.ErrWeightEntryNotFound)
		require.NoError(t, weights.Delete(ctx, "u1", all[0].ID))
	})

	t.Run("single digit hours sort by time once validated", func(t *testing.T) {
		foods := NewMongoFoodRepository(db)
		for _, e := range []*domain.FoodEntry{
			{UserID: "u3", Date: "2025-06-16", Time: "10:00", Name: "Lunch", Calories: 600},
			{UserID: "u3", Date: "2025-06-16", Time: "9:05", Name: "Breakfast", Calories: 400},
		} {
			require.NoError(t, e.Validate())
			require.NoError(t, foods.Create(ctx, e))
		}

		day, err := foods.ListByDate(ctx, "u3", "2025-06-16")
		require.NoError(t, err)
		require.Len(t, day, 2)
		assert.Equal(t, "Breakfast", day[0].Name)
		assert.Equal(t, "09:05", day[0].Time)
	})

	t.Run("food delete leaves saved foods alone", func(t *testing.T) {
		foods := NewMongoFoodRepository(db)
		saved := NewMongoSavedFoodRepository(db)

		tpl := &domain.SavedFood{UserID: "u1", Name: "Oats", Calories: 380, Protein: 13}
		require.NoError(t, saved.Create(ctx, tpl))

		entry := tpl.Instantiate("2025-06-15", "08:00")
		require.NoError(t, foods.Create(ctx, entry))
		require.NoError(t, foods.Create(ctx, &domain.FoodEntry{UserID: "u1", Date: "2025-06-15", Time: "07:00", Name: "Coffee", Calories: 5}))

		day, err := foods.ListByDate(ctx, "u1", "2025-06-15")
		require.NoError(t, err)
		require.Len(t, day, 2)
		assert.Equal(t, "Coffee", day[0].Name)

		require.NoError(t, foods.Delete(ctx, "u1", entry.ID))

		got, err := saved.GetByID(ctx, "u1", tpl.ID)
		require.NoError(t, err)
		assert.Equal(t, "Oats", got.Name)

		_, err = saved.GetByID(ctx, "u2", tpl.ID)
		assert.ErrorIs(t, err, domain.ErrSavedFoodNotFound)

		list, err := saved.List(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, list, 1)

		require.NoError(t, saved.Delete(ctx, "u1", tpl.ID))
		assert.ErrorIs(t, saved.Delete(ctx, "u1", tpl.ID), domain.ErrSavedFoodNotFound)
	})
}
