package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FitnessLevel is the difficulty level of an exercise or a user.
type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "Beginner"
	LevelIntermediate FitnessLevel = "Intermediate"
	LevelExpert       FitnessLevel = "Expert"
)

// Valid reports whether the level is one of the known fitness levels.
func (l FitnessLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelExpert:
		return true
	}
	return false
}

// Common exercise categories from the dataset. The catalog may carry more;
// categories unknown to the MET table fall back to a default value in the
// calorie estimator instead of failing.
const (
	CategoryStrength   = "Strength"
	CategoryCardio     = "Cardio"
	CategoryStretching = "Stretching"
	CategoryWarmup     = "Warmup"
	CategoryHIIT       = "HIIT"
)

// Phase identifies a segment of a generated workout.
type Phase string

const (
	PhaseWarmup     Phase = "warmup"
	PhaseMainCourse Phase = "main_course"
	PhaseStretches  Phase = "stretches"
)

// Valid reports whether the phase is one of the three workout phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseWarmup, PhaseMainCourse, PhaseStretches:
		return true
	}
	return false
}

// Exercise is a single record in the exercise catalog. Records are created in
// bulk at dataset-load time and never deleted, only deactivated. After load
// the only mutable fields are UsageCount/LastUsedAt (bumped by the generator)
// and the media/active fields editable through the admin API.
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ExerciseID  string             `bson:"exercise_id" json:"exercise_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"type" json:"type"` // e.g. "Strength", "Cardio", "Stretching"
	BodyPart    string             `bson:"body_part" json:"body_part"`
	Equipment   string             `bson:"equipment" json:"equipment"`
	Level       FitnessLevel       `bson:"level" json:"level"`
	Rating      float64            `bson:"rating" json:"rating"`
	MET         float64            `bson:"met_value" json:"met_value"`

	VideoURL             string `bson:"video_url,omitempty" json:"video_url,omitempty"`
	VideoDurationSeconds int    `bson:"video_duration_seconds,omitempty" json:"video_duration_seconds,omitempty"`

	IsActive   bool       `bson:"is_active" json:"is_active"`
	UsageCount int64      `bson:"usage_count" json:"usage_count"`
	LastUsedAt *time.Time `bson:"last_used_at,omitempty" json:"last_used_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ExerciseFilter narrows catalog queries. Zero-valued fields are ignored.
type ExerciseFilter struct {
	BodyPart  string
	Equipment string
	Level     FitnessLevel
	Category  string
}
