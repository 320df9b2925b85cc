package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fitgen/fitness-backend/internal/api"
	"fitgen/fitness-backend/internal/config"
	"fitgen/fitness-backend/internal/generator"
	"fitgen/fitness-backend/internal/repository/mongo"
	"fitgen/fitness-backend/internal/service"
	"fitgen/fitness-backend/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.Info("starting fitness backend")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.WithError(err).Fatal("could not load config")
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logger.WithError(err).Fatal("could not connect to MongoDB")
	}
	defer func() {
		logger.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logger.WithError(err).Error("failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logger.WithField("database", cfg.Database.Name).Info("database connection established")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		mongo.EnsureWorkoutLogIndexes(ctx, appDB.Collection("workout_logs"))
		mongo.EnsureSystemConfigIndexes(ctx, appDB.Collection("system_config"))
		logger.Info("index creation completed")
	}()

	// --- Media Storage (optional) ---
	var mediaStorage storage.MediaStorage
	if cfg.S3.BucketName != "" {
		mediaStorage, err = storage.NewS3Storage(cfg.S3, logger)
		if err != nil {
			logger.WithError(err).Fatal("failed to initialize media storage")
		}
		logger.WithField("bucket", cfg.S3.BucketName).Info("media storage initialized")
	} else {
		logger.Info("no media bucket configured, media endpoints disabled")
	}

	// --- Repositories ---
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	logRepo := mongo.NewMongoWorkoutLogRepository(appDB)
	mlConfigRepo := mongo.NewMongoMLConfigRepository(appDB, cfg.ML.TrainingWindowDays, cfg.ML.MinSessionsForTraining)

	// --- Generator and Services ---
	gen := generator.New(exerciseRepo, logger, generator.WithRecency(logRepo))
	workoutService := service.NewWorkoutService(gen, exerciseRepo, logger)
	sessionService := service.NewSessionService(logRepo, mlConfigRepo, logger)
	datasetService := service.NewDatasetService(exerciseRepo, mediaStorage, logger)

	// --- Router ---
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, workoutService, sessionService, datasetService, cfg.Dataset.CSVPath, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.WithField("address", cfg.Server.Address).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("listen and serve error")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Fatal("server forced to shutdown")
	}

	logger.Info("server exiting")
}
