package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default retraining thresholds, used when no config document exists yet.
const (
	DefaultTrainingWindowDays     = 30
	DefaultMinSessionsForTraining = 5
)

// MLConfig holds the thresholds behind the training readiness gate. No model
// exists behind the gate; the document only parameterises the boolean check.
type MLConfig struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ConfigType             string             `bson:"config_type" json:"config_type"`
	TrainingWindowDays     int                `bson:"training_window_days" json:"training_window_days"`
	MinSessionsForTraining int                `bson:"min_sessions_for_training" json:"min_sessions_for_training"`
	CreatedAt              time.Time          `bson:"created_at" json:"created_at"`
	LastUpdated            time.Time          `bson:"last_updated" json:"last_updated"`
}
