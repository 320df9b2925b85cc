package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"fitgen/fitness-backend/internal/domain"
	"fitgen/fitness-backend/internal/generator"
	"fitgen/fitness-backend/internal/repository"
)

// WorkoutService exposes workout generation to the routing layer.
type WorkoutService interface {
	Generate(ctx context.Context, req domain.WorkoutRequest) (*domain.GeneratedWorkout, error)
}

type workoutService struct {
	gen          *generator.Generator
	exerciseRepo repository.ExerciseRepository
	log          *logrus.Entry
}

// NewWorkoutService creates a WorkoutService around a configured generator.
// The exercise repository is used only for post-generation usage tracking.
func NewWorkoutService(gen *generator.Generator, exerciseRepo repository.ExerciseRepository, logger *logrus.Logger) WorkoutService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &workoutService{
		gen:          gen,
		exerciseRepo: exerciseRepo,
		log:          logger.WithField("component", "workout"),
	}
}

// Generate runs the generator and then bumps usage counters on the selected
// catalog exercises. Usage tracking is best effort: a failed bump is logged,
// never surfaced, and emergency-list exercises are skipped since they do not
// exist in the catalog.
func (s *workoutService) Generate(ctx context.Context, req domain.WorkoutRequest) (*domain.GeneratedWorkout, error) {
	workout, err := s.gen.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	var used []string
	for _, ex := range workout.AllExercises() {
		if generator.IsEmergencyExercise(ex.ExerciseID) {
			continue
		}
		used = append(used, ex.ExerciseID)
	}
	if len(used) > 0 {
		if err := s.exerciseRepo.MarkUsed(ctx, used, workout.GeneratedAt); err != nil {
			s.log.WithError(err).WithField("workout_id", workout.WorkoutID).
				Warn("failed to update exercise usage counters")
		}
	}

	return workout, nil
}
