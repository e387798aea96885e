// Command saved_foods seeds a starter set of saved-food templates for one user.
//
//	go run ./cmd/seed/saved_foods -username ana
package main

import (
	"context"
	"flag"
	"strings"
	"time"

	"github.com/flori/fittrack/internal/config"
	"github.com/flori/fittrack/internal/logging"
	"github.com/flori/fittrack/internal/repository"
	"github.com/flori/fittrack/internal/service"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var starterFoods = []service.SavedFoodInput{
	{Name: "Oatmeal (80g)", Calories: 300, Protein: 11},
	{Name: "Greek Yogurt (200g)", Calories: 190, Protein: 20},
	{Name: "Chicken Breast (150g)", Calories: 248, Protein: 46},
	{Name: "White Rice (200g cooked)", Calories: 260, Protein: 5},
	{Name: "Whey Shake", Calories: 120, Protein: 24},
	{Name: "Eggs (3 large)", Calories: 215, Protein: 19},
	{Name: "Banana", Calories: 105, Protein: 1},
	{Name: "Peanut Butter (2 tbsp)", Calories: 190, Protein: 8},
}

func main() {
	username := flag.String("username", "", "user to seed saved foods for")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	logging.Setup(logging.LoggerSetupParams{LogToStdout: true, LogLevel: cfg.Log.Level})

	if *username == "" {
		logrus.Fatal("-username is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		logrus.Fatalf("failed to connect to Mongo: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB.Database)
	userRepo := repository.NewMongoUserRepository(db)
	foodService := service.NewFoodService(
		repository.NewMongoFoodRepository(db),
		repository.NewMongoSavedFoodRepository(db),
		userRepo,
		cfg.Calendar.Location,
	)

	user, err := userRepo.GetByUsername(ctx, strings.ToLower(*username))
	if err != nil {
		logrus.Fatalf("failed to find user %q: %v", *username, err)
	}

	existing, err := foodService.ListSavedFoods(ctx, user.ID)
	if err != nil {
		logrus.Fatalf("failed to list saved foods: %v", err)
	}
	have := make(map[string]bool, len(existing))
	for _, f := range existing {
		have[f.Name] = true
	}

	created := 0
	for _, in := range starterFoods {
		if have[in.Name] {
			logrus.WithField("name", in.Name).Debug("already present, skipping")
			continue
		}
		if _, err := foodService.CreateSavedFood(ctx, user.ID, in); err != nil {
			logrus.WithError(err).WithField("name", in.Name).Error("failed to create saved food")
			continue
		}
		created++
	}

	logrus.WithFields(logrus.Fields{"user": user.Username, "created": created}).Info("seeding complete")
}
