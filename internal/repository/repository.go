package repository

import (
	"context"
	"time"

	"fitgen/fitness-backend/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrUnavailable  = RepositoryError("storage unavailable")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ExerciseRepository is the exercise catalog: filter queries over the loaded
// dataset plus the narrow mutations the system allows (media/active updates,
// usage tracking, bulk load).
type ExerciseRepository interface {
	Find(ctx context.Context, filter domain.ExerciseFilter, limit int64) ([]domain.Exercise, error)
	GetByExerciseID(ctx context.Context, exerciseID string) (*domain.Exercise, error)
	// BulkUpsert loads dataset rows keyed by exercise_id; existing records
	// are replaced, new ones inserted. Returns inserted and updated counts.
	BulkUpsert(ctx context.Context, exercises []domain.Exercise) (inserted, updated int64, err error)
	// UpdateMedia sets video/active fields; nil pointers leave fields alone.
	UpdateMedia(ctx context.Context, exerciseID string, videoURL *string, videoDurationSeconds *int, isActive *bool) error
	// MarkUsed bumps usage_count and last_used_at on the given exercises.
	MarkUsed(ctx context.Context, exerciseIDs []string, usedAt time.Time) error
	Count(ctx context.Context) (int64, error)
}

// WorkoutLogRepository stores per-exercise completion events. Entries are
// append-only; CompleteWorkout is the single allowed bulk status mutation.
type WorkoutLogRepository interface {
	Append(ctx context.Context, entry *domain.ExerciseLogEntry) (string, error)
	GetByWorkoutID(ctx context.Context, workoutID string) ([]domain.ExerciseLogEntry, error)
	GetByUserID(ctx context.Context, userID string, limit, skip int64) ([]domain.ExerciseLogEntry, error)
	GetByUserSince(ctx context.Context, userID string, since time.Time) ([]domain.ExerciseLogEntry, error)
	CompleteWorkout(ctx context.Context, workoutID string) error
	// LastUsed returns the most recent completed_at per exercise id for the
	// user, restricted to the given ids. Ids never logged are absent.
	LastUsed(ctx context.Context, userID string, exerciseIDs []string) (map[string]time.Time, error)
}

// MLConfigRepository stores the retraining thresholds for the readiness gate.
type MLConfigRepository interface {
	Get(ctx context.Context) (*domain.MLConfig, error)
	Update(ctx context.Context, windowDays, minSessions *int) (*domain.MLConfig, error)
}
