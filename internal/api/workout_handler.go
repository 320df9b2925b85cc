package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fitgen/fitness-backend/internal/domain"
	"fitgen/fitness-backend/internal/service"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

// GenerateWorkoutRequest defines the expected JSON for workout generation.
// Warmup and stretches default to enabled when omitted, hence the pointers.
type GenerateWorkoutRequest struct {
	TargetBodyParts  []string `json:"target_body_parts" binding:"required,min=1"`
	DurationMinutes  int      `json:"duration_minutes" binding:"required"`
	WeightKg         float64  `json:"weight_kg" binding:"required"`
	FitnessLevel     string   `json:"fitness_level" binding:"required"`
	IncludeWarmup    *bool    `json:"include_warmup"`
	IncludeStretches *bool    `json:"include_stretches"`
}

// --- Handler Methods ---

// GenerateWorkout builds a workout for the user in the path.
// POST /api/v1/users/:userId/workouts/generate
func (h *WorkoutHandler) GenerateWorkout(c *gin.Context) {
	var req GenerateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	domainReq := domain.WorkoutRequest{
		UserID:           c.Param("userId"),
		TargetBodyParts:  req.TargetBodyParts,
		DurationMinutes:  req.DurationMinutes,
		WeightKg:         req.WeightKg,
		FitnessLevel:     domain.FitnessLevel(req.FitnessLevel),
		IncludeWarmup:    true,
		IncludeStretches: true,
	}
	if req.IncludeWarmup != nil {
		domainReq.IncludeWarmup = *req.IncludeWarmup
	}
	if req.IncludeStretches != nil {
		domainReq.IncludeStretches = *req.IncludeStretches
	}

	workout, err := h.workoutService.Generate(c.Request.Context(), domainReq)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate workout.")
		}
		return
	}

	c.JSON(http.StatusOK, workout)
}
