package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/sproutyapp/server/adapters"
	"github.com/sproutyapp/server/adapters/fcm"
	"github.com/sproutyapp/server/adapters/mongo"
	"github.com/sproutyapp/server/domain/repositories"
	"github.com/sproutyapp/server/internal/api"
	"github.com/sproutyapp/server/internal/auth"
	"github.com/sproutyapp/server/internal/config"
	"github.com/sproutyapp/server/internal/scheduler"
	"github.com/sproutyapp/server/usecase"
)

func main() {
	godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	// Document store and repositories
	client, err := mongo.NewClient(cfg.MongoURI, cfg.MongoDatabase, logger)
	if err != nil {
		logger.Fatal("Failed to connect to document store", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client.Close(ctx)
	}()

	plantRepo := mongo.NewPlantRepository(client.Database)
	speciesRepo := mongo.NewSpeciesRepository(client.Database)
	userRepo := mongo.NewUserRepository(client.Database)
	historyRepo := mongo.NewHistoryRepository(client.Database)
	lockRepo := mongo.NewRunLockRepository(client.Database)

	// Push collaborator: FCM in production, a logging stand-in without
	// credentials.
	var sender repositories.PushSender
	if cfg.FirebaseProjectID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		messenger, err := fcm.NewMessenger(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile, userRepo, logger)
		cancel()
		if err != nil {
			logger.Fatal("Failed to initialize FCM", zap.Error(err))
		}
		sender = messenger
	} else {
		logger.Warn("FIREBASE_PROJECT_ID not set, push notifications will only be logged")
		sender = adapters.NewLoggingSender(logger)
	}

	// Usecase services
	notifier := usecase.NewNotifier(sender, logger, nil)
	telemetry := usecase.NewTelemetryService(plantRepo, speciesRepo, historyRepo, notifier, logger, nil)
	plantSvc := usecase.NewPlantService(plantRepo, speciesRepo, logger, nil)
	sweeps := usecase.NewSweepService(plantRepo, speciesRepo, lockRepo, notifier, logger,
		cfg.WateringSweepGuard, cfg.ConnectivitySweepGuard, nil)

	// Periodic sweeps. Every instance ticks; the run lock keeps it to one
	// execution per period fleet-wide.
	sched := scheduler.New(logger, 10*time.Minute)
	if err := sched.Every(cfg.WateringSweepPeriod, "watering_sweep", sweeps.RunWateringSweep); err != nil {
		logger.Fatal("Failed to schedule watering sweep", zap.Error(err))
	}
	if err := sched.Every(cfg.ConnectivitySweepPeriod, "connectivity_sweep", sweeps.RunConnectivitySweep); err != nil {
		logger.Fatal("Failed to schedule connectivity sweep", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	// Create Echo instance
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	validator := auth.NewValidator(cfg.JWTSecret)
	api.InitRoutes(e, telemetry, plantSvc, validator, logger)

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
