package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fitgen/fitness-backend/internal/service"
)

// SetupRoutes registers the full HTTP surface on the router.
func SetupRoutes(
	router *gin.Engine,
	workoutService service.WorkoutService,
	sessionService service.SessionService,
	datasetService service.DatasetService,
	defaultCSVPath string,
	logger *logrus.Logger,
) {
	workoutHandler := NewWorkoutHandler(workoutService)
	sessionHandler := NewSessionHandler(sessionService)
	exerciseHandler := NewExerciseHandler(datasetService)
	adminHandler := NewAdminHandler(datasetService, sessionService, defaultCSVPath)

	router.Use(RequestLogger(logger))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.GET("/health", func(c *gin.Context) {
		count, err := datasetService.ExerciseCount(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "exercise_count": count})
	})

	apiV1 := router.Group("/api/v1")
	{
		datasetGroup := apiV1.Group("/dataset")
		{
			datasetGroup.GET("/exercises", exerciseHandler.ListExercises)
			datasetGroup.GET("/exercises/:exerciseId", exerciseHandler.GetExercise)
		}

		userGroup := apiV1.Group("/users/:userId")
		{
			userGroup.POST("/workouts/generate", workoutHandler.GenerateWorkout)

			userGroup.POST("/workouts/:workoutId/exercises/:exerciseId/log", sessionHandler.LogExercise)
			userGroup.GET("/workouts/:workoutId/status", sessionHandler.WorkoutStatus)
			userGroup.POST("/workouts/:workoutId/complete", sessionHandler.CompleteWorkout)

			userGroup.GET("/history", sessionHandler.History)
			userGroup.GET("/analytics", sessionHandler.Analytics)
			userGroup.GET("/analytics/calories", sessionHandler.CalorieSummary)
			userGroup.GET("/analytics/ml", sessionHandler.MLReadiness)
		}

		adminGroup := apiV1.Group("/admin")
		{
			adminGroup.POST("/dataset/load", adminHandler.LoadDataset)
			adminGroup.PUT("/dataset/exercises/:exerciseId", adminHandler.UpdateExercise)
			adminGroup.POST("/dataset/exercises/:exerciseId/media", adminHandler.MediaUploadURL)
			adminGroup.GET("/ml-config", adminHandler.GetMLConfig)
			adminGroup.PUT("/ml-config", adminHandler.UpdateMLConfig)
		}
	}
}
