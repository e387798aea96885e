package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flori/fittrack/internal/config"
	"github.com/flori/fittrack/internal/domain"
	"github.com/flori/fittrack/internal/logging"
	"github.com/flori/fittrack/internal/repository"
	"github.com/flori/fittrack/internal/server"
	"github.com/flori/fittrack/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.Stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	logrus.Info("starting fittrack service")

	ctx := context.Background()

	otelProvider, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.OTEL.ServiceName,
		ServiceVersion: cfg.OTEL.ServiceVersion,
		Environment:    cfg.OTEL.Environment,
		OTLPEndpoint:   cfg.OTEL.Endpoint,
		OTLPHeaders:    telemetry.BasicAuthHeaders(cfg.OTEL.InstanceID, cfg.OTEL.Token),
		Enabled:        cfg.OTEL.Enabled,
	})
	if err != nil {
		logrus.WithError(err).Warn("failed to initialize OpenTelemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelProvider.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("OpenTelemetry shutdown")
		}
	}()

	// MongoDB with OpenTelemetry instrumentation
	ctxMongo, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	mongoOpts := options.Client().ApplyURI(cfg.MongoDB.URI)
	if cfg.OTEL.Enabled {
		mongoOpts.SetMonitor(otelmongo.NewMonitor())
	}

	mongoClient, err := mongo.Connect(ctxMongo, mongoOpts)
	if err != nil {
		logrus.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logrus.WithError(err).Error("error disconnecting from MongoDB")
		}
	}()
	if err := mongoClient.Ping(ctxMongo, nil); err != nil {
		logrus.Fatalf("failed to ping MongoDB: %v", err)
	}
	logrus.WithField("database", cfg.MongoDB.Database).Info("MongoDB connected")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}
	logrus.Info("Redis connected")

	// exports stay disabled unless storage is configured and reachable
	var files domain.FileRepository
	if cfg.S3.Endpoint != "" {
		s3Repo, err := repository.NewS3FileRepository(ctx, cfg.S3)
		if err != nil {
			logrus.WithError(err).Warn("export storage unavailable, exports disabled")
		} else {
			files = s3Repo
		}
	}

	app := server.NewApp(server.AppDependencies{
		Config:      cfg,
		MongoDB:     mongoClient.Database(cfg.MongoDB.Database),
		RedisClient: redisClient,
		Files:       files,
	})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logrus.Info("shutting down gracefully")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logrus.WithError(err).Error("server shutdown")
		}
	}()

	logrus.WithField("port", cfg.Server.Port).Info("server starting")
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		logrus.Fatalf("failed to start server: %v", err)
	}
}
