package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutStatus tracks the lifecycle of a logged workout.
type WorkoutStatus string

const (
	StatusNotStarted WorkoutStatus = "not_started"
	StatusInProgress WorkoutStatus = "in_progress"
	StatusCompleted  WorkoutStatus = "completed"
)

// ExerciseLogEntry records the completion of a single exercise within a
// workout. Entries are append-only; the only post-insert mutation is the
// bulk workout_status flip when the parent workout is completed.
type ExerciseLogEntry struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	LogID            string             `bson:"log_id" json:"log_id"`
	UserID           string             `bson:"user_id" json:"user_id"`
	WorkoutID        string             `bson:"workout_id" json:"workout_id"`
	ExerciseID       string             `bson:"exercise_id" json:"exercise_id"`
	ExerciseTitle    string             `bson:"exercise_title" json:"exercise_title"`
	Phase            Phase              `bson:"phase" json:"phase"`
	CompletedAt      time.Time          `bson:"completed_at" json:"completed_at"`
	PlannedSets      int                `bson:"planned_sets" json:"planned_sets"`
	CompletedSets    int                `bson:"completed_sets" json:"completed_sets"`
	PlannedReps      int                `bson:"planned_reps" json:"planned_reps"`
	ActualReps       []int              `bson:"actual_reps" json:"actual_reps"`
	WeightUsedKg     float64            `bson:"weight_used_kg" json:"weight_used_kg"`
	DurationMinutes  float64            `bson:"duration_minutes" json:"duration_minutes"`
	CaloriesBurned   float64            `bson:"calories_burned" json:"calories_burned"`
	DifficultyRating int                `bson:"difficulty_rating" json:"difficulty_rating"`
	Notes            string             `bson:"notes,omitempty" json:"notes,omitempty"`
	WorkoutStatus    WorkoutStatus      `bson:"workout_status" json:"workout_status"`
}
