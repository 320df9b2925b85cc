package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRequest marks malformed caller input. It is the only error class
// that fails a generate call outright; data-availability problems degrade
// through the fallback cascade instead.
var ErrInvalidRequest = errors.New("invalid workout request")

// Request bounds for workout generation.
const (
	MinDurationMinutes = 1
	MaxDurationMinutes = 300
)

// WorkoutRequest carries the parameters for a single workout generation call.
// It is transient: constructed per call and never persisted.
type WorkoutRequest struct {
	UserID           string
	TargetBodyParts  []string
	DurationMinutes  int
	WeightKg         float64
	FitnessLevel     FitnessLevel
	IncludeWarmup    bool
	IncludeStretches bool
}

// Validate checks the request bounds. All returned errors wrap
// ErrInvalidRequest so callers can classify them with errors.Is.
func (r WorkoutRequest) Validate() error {
	if len(r.TargetBodyParts) == 0 {
		return fmt.Errorf("%w: target body parts must not be empty", ErrInvalidRequest)
	}
	if r.DurationMinutes < MinDurationMinutes || r.DurationMinutes > MaxDurationMinutes {
		return fmt.Errorf("%w: duration must be between %d and %d minutes, got %d",
			ErrInvalidRequest, MinDurationMinutes, MaxDurationMinutes, r.DurationMinutes)
	}
	if r.WeightKg <= 0 {
		return fmt.Errorf("%w: weight must be positive, got %.1f", ErrInvalidRequest, r.WeightKg)
	}
	if !r.FitnessLevel.Valid() {
		return fmt.Errorf("%w: unknown fitness level %q", ErrInvalidRequest, r.FitnessLevel)
	}
	return nil
}

// PlannedExercise is one catalog exercise placed into a workout phase, with
// the prescription (sets/reps/rest) and calorie estimate attached.
type PlannedExercise struct {
	ExerciseID        string   `json:"exercise_id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	DurationMinutes   float64  `json:"duration_minutes"`
	Sets              int      `json:"sets"`
	Reps              int      `json:"reps"`
	RestSeconds       int      `json:"rest_seconds"`
	MET               float64  `json:"met_value"`
	EstimatedCalories float64  `json:"estimated_calories"`
	VideoURL          string   `json:"video_url,omitempty"`
	Order             int      `json:"order"`
	Phase             Phase    `json:"phase"`
	Notes             string   `json:"notes,omitempty"`
	Modifications     []string `json:"modifications,omitempty"`
}

// WorkoutPhase is one ordered segment of a generated workout.
type WorkoutPhase struct {
	DurationMinutes   float64           `json:"duration_minutes"`
	EstimatedCalories float64           `json:"estimated_calories"`
	Exercises         []PlannedExercise `json:"exercises"`
}

// GeneratedWorkout is the result of one generate call. It is never mutated
// after return; completion tracking lives in ExerciseLogEntry documents.
type GeneratedWorkout struct {
	WorkoutID              string       `json:"workout_id"`
	UserID                 string       `json:"user_id"`
	GeneratedAt            time.Time    `json:"generated_at"`
	TotalDurationMinutes   float64      `json:"total_duration_minutes"`
	EstimatedTotalCalories float64      `json:"estimated_total_calories"`
	TargetBodyParts        []string     `json:"target_body_parts"`
	FitnessLevel           FitnessLevel `json:"fitness_level"`
	Warmup                 WorkoutPhase `json:"warmup"`
	MainCourse             WorkoutPhase `json:"main_course"`
	Stretches              WorkoutPhase `json:"stretches"`
}

// AllExercises returns every planned exercise across the three phases,
// in warmup, main, stretches order.
func (w GeneratedWorkout) AllExercises() []PlannedExercise {
	out := make([]PlannedExercise, 0,
		len(w.Warmup.Exercises)+len(w.MainCourse.Exercises)+len(w.Stretches.Exercises))
	out = append(out, w.Warmup.Exercises...)
	out = append(out, w.MainCourse.Exercises...)
	out = append(out, w.Stretches.Exercises...)
	return out
}
