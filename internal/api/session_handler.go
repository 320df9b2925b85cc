package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fitgen/fitness-backend/internal/domain"
	"fitgen/fitness-backend/internal/service"
)

// SessionHandler holds the session service dependency.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// --- DTOs ---

// LogExerciseRequest defines the expected JSON for logging one completed
// exercise. User, workout and exercise ids come from the path.
type LogExerciseRequest struct {
	ExerciseTitle    string  `json:"exercise_title"`
	Phase            string  `json:"phase" binding:"required"`
	PlannedSets      int     `json:"planned_sets" binding:"required"`
	CompletedSets    int     `json:"completed_sets"`
	PlannedReps      int     `json:"planned_reps" binding:"required"`
	ActualReps       []int   `json:"actual_reps"`
	WeightUsedKg     float64 `json:"weight_used_kg"`
	DurationMinutes  float64 `json:"duration_minutes"`
	CaloriesBurned   float64 `json:"calories_burned"`
	DifficultyRating int     `json:"difficulty_rating" binding:"required"`
	Notes            string  `json:"notes"`
}

// --- Handler Methods ---

// LogExercise records the completion of one exercise.
// POST /api/v1/users/:userId/workouts/:workoutId/exercises/:exerciseId/log
func (h *SessionHandler) LogExercise(c *gin.Context) {
	var req LogExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	entry := domain.ExerciseLogEntry{
		UserID:           c.Param("userId"),
		WorkoutID:        c.Param("workoutId"),
		ExerciseID:       c.Param("exerciseId"),
		ExerciseTitle:    req.ExerciseTitle,
		Phase:            domain.Phase(req.Phase),
		PlannedSets:      req.PlannedSets,
		CompletedSets:    req.CompletedSets,
		PlannedReps:      req.PlannedReps,
		ActualReps:       req.ActualReps,
		WeightUsedKg:     req.WeightUsedKg,
		DurationMinutes:  req.DurationMinutes,
		CaloriesBurned:   req.CaloriesBurned,
		DifficultyRating: req.DifficultyRating,
		Notes:            req.Notes,
	}

	logID, err := h.sessionService.LogExercise(c.Request.Context(), entry)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLogEntry) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to log exercise.")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"log_id": logID})
}

// WorkoutStatus reports aggregate progress for one workout.
// GET /api/v1/users/:userId/workouts/:workoutId/status
func (h *SessionHandler) WorkoutStatus(c *gin.Context) {
	summary, err := h.sessionService.WorkoutStatus(c.Request.Context(), c.Param("workoutId"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workout status.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CompleteWorkout flips every logged entry of the workout to completed.
// POST /api/v1/users/:userId/workouts/:workoutId/complete
func (h *SessionHandler) CompleteWorkout(c *gin.Context) {
	workoutID := c.Param("workoutId")
	err := h.sessionService.CompleteWorkout(c.Request.Context(), workoutID)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, "No logged exercises for this workout.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to complete workout.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"workout_id": workoutID, "status": domain.StatusCompleted})
}

// History returns a page of the user's exercise log, newest first.
// GET /api/v1/users/:userId/history
func (h *SessionHandler) History(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 0)

	history, err := h.sessionService.History(c.Request.Context(), c.Param("userId"), page, perPage)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve history.")
		return
	}
	c.JSON(http.StatusOK, history)
}

// CalorieSummary totals the user's calorie burn over a trailing window.
// GET /api/v1/users/:userId/analytics/calories
func (h *SessionHandler) CalorieSummary(c *gin.Context) {
	days := queryInt(c, "days", 0)
	summary, err := h.sessionService.CalorieSummary(c.Request.Context(), c.Param("userId"), days)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute calorie summary.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Analytics returns the richer per-user aggregates.
// GET /api/v1/users/:userId/analytics
func (h *SessionHandler) Analytics(c *gin.Context) {
	days := queryInt(c, "days", 0)
	analytics, err := h.sessionService.Analytics(c.Request.Context(), c.Param("userId"), days)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute analytics.")
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// MLReadiness reports whether the user has enough recent sessions for model
// training.
// GET /api/v1/users/:userId/analytics/ml
func (h *SessionHandler) MLReadiness(c *gin.Context) {
	readiness, err := h.sessionService.MLReadiness(c.Request.Context(), c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to evaluate training readiness.")
		return
	}
	c.JSON(http.StatusOK, readiness)
}

// queryInt parses an optional integer query parameter, returning the fallback
// on absence or parse failure.
func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
