package server

import (
	"time"

	"github.com/flori/fittrack/internal/config"
	"github.com/flori/fittrack/internal/domain"
	"github.com/flori/fittrack/internal/handler"
	"github.com/flori/fittrack/internal/middleware"
	"github.com/flori/fittrack/internal/repository"
	"github.com/flori/fittrack/internal/service"
	"github.com/flori/fittrack/internal/telemetry"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	// Files stores data exports; nil disables POST /v1/me/export
	Files domain.FileRepository
}

// authAttemptsPerMinute bounds register/login calls per client IP
const authAttemptsPerMinute = 20

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	cfg := deps.Config

	// Initialize repositories
	userRepo := repository.NewMongoUserRepository(deps.MongoDB)
	weightRepo := repository.NewMongoWeightRepository(deps.MongoDB)
	foodRepo := repository.NewMongoFoodRepository(deps.MongoDB)
	savedFoodRepo := repository.NewMongoSavedFoodRepository(deps.MongoDB)
	sessionRepo := repository.NewMongoGymSessionRepository(deps.MongoDB)
	cacheRepo := repository.NewRedisCacheRepository(deps.RedisClient)

	// Initialize services
	calendar := cfg.Calendar.Defaults()
	authService := service.NewAuthService(userRepo, cacheRepo, cfg.JWT)
	profileService := service.NewProfileService(userRepo)
	weightService := service.NewWeightService(weightRepo)
	foodService := service.NewFoodService(foodRepo, savedFoodRepo, userRepo, calendar.Location)
	sessionService := service.NewSessionService(sessionRepo)
	dashboardService := service.NewDashboardService(weightRepo, foodRepo, sessionRepo, userRepo, calendar)
	exportService := service.NewExportService(userRepo, weightRepo, foodRepo, savedFoodRepo, sessionRepo, deps.Files)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService)
	weightHandler := handler.NewWeightHandler(weightService)
	foodHandler := handler.NewFoodHandler(foodService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	exportHandler := handler.NewExportHandler(exportService)

	app := fiber.New(fiber.Config{
		AppName:      "fittrack API",
		BodyLimit:    int(cfg.Server.BodyLimitKB * 1024),
		ErrorHandler: handler.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(telemetry.FiberMiddleware())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + middleware.CorrelationIDHeader,
		AllowMethods:  "GET, POST, PUT, DELETE, OPTIONS",
		ExposeHeaders: middleware.IdempotentReplayHeader + ", X-Trace-ID",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": cfg.OTEL.ServiceName,
		})
	})

	v1 := app.Group("/v1")
	auth := middleware.VerifyToken(cfg.JWT.Secret, cacheRepo)
	idempotency := middleware.Idempotency(cacheRepo, cfg.Idempotency.TTL)

	// Auth endpoints
	authGroup := v1.Group("/auth")
	authLimiter := limiter.New(limiter.Config{
		Max:        authAttemptsPerMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	})
	authGroup.Post("/register", authLimiter, authHandler.Register)
	authGroup.Post("/login", authLimiter, authHandler.Login)
	authGroup.Post("/logout", auth, authHandler.Logout)

	// ===========================================
	// OWNER API - /v1/me/*
	// ===========================================
	me := v1.Group("/me", auth, idempotency)

	me.Get("/profile", profileHandler.Get)
	me.Put("/profile", profileHandler.Update)

	me.Get("/weight", weightHandler.List)
	me.Post("/weight", weightHandler.Create)
	me.Delete("/weight/:id", weightHandler.Delete)

	me.Get("/food", foodHandler.List)
	me.Post("/food", foodHandler.Create)
	me.Get("/food/summary", foodHandler.Summary)
	me.Delete("/food/:id", foodHandler.Delete)

	me.Get("/saved-foods", foodHandler.ListSaved)
	me.Post("/saved-foods", foodHandler.CreateSaved)
	me.Delete("/saved-foods/:id", foodHandler.DeleteSaved)
	me.Post("/saved-foods/:id/log", foodHandler.LogSaved)

	// static paths before /sessions/:id
	me.Get("/sessions", sessionHandler.List)
	me.Get("/sessions/active", sessionHandler.Active)
	me.Get("/sessions/latest", sessionHandler.Latest)
	me.Post("/sessions/start", sessionHandler.Start)
	me.Get("/sessions/:id", sessionHandler.Get)
	me.Post("/sessions/:id/exercises", sessionHandler.AddExercise)
	me.Post("/sessions/:id/complete", sessionHandler.Complete)
	me.Delete("/sessions/:id", sessionHandler.Delete)

	me.Get("/dashboard/kpi", dashboardHandler.KPI)
	me.Get("/dashboard/calendar/:year/:month", dashboardHandler.Calendar)
	me.Get("/dashboard/consistency", dashboardHandler.Consistency)

	me.Post("/export", exportHandler.Export)

	// ===========================================
	// PUBLIC API - /v1/public/:username/* (read-only, opt-in)
	// ===========================================
	public := v1.Group("/public/:username")
	owner := profileHandler.ResolveOwner
	public.Get("/kpi", owner, dashboardHandler.KPI)
	public.Get("/weight", owner, weightHandler.List)
	public.Get("/sessions", owner, sessionHandler.List)
	public.Get("/calendar/:year/:month", owner, dashboardHandler.Calendar)
	public.Get("/consistency", owner, dashboardHandler.Consistency)

	return app
}
