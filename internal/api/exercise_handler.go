package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fitgen/fitness-backend/internal/domain"
	"fitgen/fitness-backend/internal/service"
)

const defaultListLimit = 100

// ExerciseHandler serves read access to the exercise catalog.
type ExerciseHandler struct {
	datasetService service.DatasetService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(datasetService service.DatasetService) *ExerciseHandler {
	return &ExerciseHandler{datasetService: datasetService}
}

// ListExercises returns active catalog entries matching the query filters.
// GET /api/v1/dataset/exercises
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	filter := domain.ExerciseFilter{
		BodyPart:  c.Query("body_part"),
		Equipment: c.Query("equipment"),
		Level:     domain.FitnessLevel(c.Query("level")),
		Category:  c.Query("type"),
	}
	if filter.Level != "" && !filter.Level.Valid() {
		abortWithError(c, http.StatusBadRequest, "Unknown fitness level: "+string(filter.Level))
		return
	}
	limit := int64(queryInt(c, "limit", defaultListLimit))

	exercises, err := h.datasetService.ListExercises(c.Request.Context(), filter, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercises.")
		return
	}
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(exercises), "exercises": exercises})
}

// GetExercise returns one catalog entry by its stable id.
// GET /api/v1/dataset/exercises/:exerciseId
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exercise, err := h.datasetService.GetExercise(c.Request.Context(), c.Param("exerciseId"))
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, "Exercise not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercise.")
		}
		return
	}
	c.JSON(http.StatusOK, exercise)
}
