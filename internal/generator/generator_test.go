package generator

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitgen/fitness-backend/internal/domain"
)

// fakeCatalog serves canned exercises through the Catalog interface and
// records every filter it was queried with.
type fakeCatalog struct {
	exercises []domain.Exercise
	queries   []domain.ExerciseFilter
	err       error
}

func (f *fakeCatalog) Find(_ context.Context, filter domain.ExerciseFilter, limit int64) ([]domain.Exercise, error) {
	f.queries = append(f.queries, filter)
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Exercise
	for _, ex := range f.exercises {
		if filter.BodyPart != "" && ex.BodyPart != filter.BodyPart {
			continue
		}
		if filter.Equipment != "" && ex.Equipment != filter.Equipment {
			continue
		}
		if filter.Level != "" && ex.Level != filter.Level {
			continue
		}
		if filter.Category != "" && ex.Category != filter.Category {
			continue
		}
		out = append(out, ex)
		if int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

type fakeRecency struct {
	lastUsed map[string]time.Time
}

func (f *fakeRecency) LastUsed(_ context.Context, _ string, _ []string) (map[string]time.Time, error) {
	return f.lastUsed, nil
}

func seededGenerator(catalog Catalog, seed int64, opts ...Option) *Generator {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	opts = append(opts, WithRand(rand.New(rand.NewSource(seed))))
	return New(catalog, logger, opts...)
}

func chestExercises(n int, level domain.FitnessLevel) []domain.Exercise {
	out := make([]domain.Exercise, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Exercise{
			ExerciseID: fmt.Sprintf("chest_%s_%02d", level, i),
			Title:      fmt.Sprintf("Chest %s %02d", level, i),
			BodyPart:   "Chest",
			Equipment:  "Barbell",
			Level:      level,
			Category:   domain.CategoryStrength,
			Rating:     7.0,
			MET:        5.0,
			IsActive:   true,
		})
	}
	return out
}

func baseRequest() domain.WorkoutRequest {
	return domain.WorkoutRequest{
		UserID:           "user-1",
		TargetBodyParts:  []string{"Chest"},
		DurationMinutes:  60,
		WeightKg:         75,
		FitnessLevel:     domain.LevelIntermediate,
		IncludeWarmup:    false,
		IncludeStretches: false,
	}
}

func TestGenerateRejectsInvalidRequests(t *testing.T) {
	g := seededGenerator(&fakeCatalog{}, 1)

	tests := []struct {
		name   string
		mutate func(*domain.WorkoutRequest)
	}{
		{"empty body parts", func(r *domain.WorkoutRequest) { r.TargetBodyParts = nil }},
		{"zero duration", func(r *domain.WorkoutRequest) { r.DurationMinutes = 0 }},
		{"negative duration", func(r *domain.WorkoutRequest) { r.DurationMinutes = -5 }},
		{"duration above bound", func(r *domain.WorkoutRequest) { r.DurationMinutes = 301 }},
		{"non-positive weight", func(r *domain.WorkoutRequest) { r.WeightKg = 0 }},
		{"unknown level", func(r *domain.WorkoutRequest) { r.FitnessLevel = "Ninja" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			tt.mutate(&req)
			_, err := g.Generate(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		})
	}
}

func TestGenerateMainPhaseCountWithinBounds(t *testing.T) {
	catalog := &fakeCatalog{exercises: chestExercises(30, domain.LevelIntermediate)}
	g := seededGenerator(catalog, 7)

	tests := []struct {
		duration int
		min, max int
	}{
		{15, 5, 5},  // tiny session clamps up to the minimum target
		{45, 5, 5},  // 45/8 -> 5
		{60, 5, 7},  // 60/8 -> 7
		{120, 8, 8}, // clamped at max
	}
	for _, tt := range tests {
		req := baseRequest()
		req.DurationMinutes = tt.duration
		workout, err := g.Generate(context.Background(), req)
		require.NoError(t, err)
		n := len(workout.MainCourse.Exercises)
		assert.GreaterOrEqual(t, n, tt.min, "duration %d", tt.duration)
		assert.LessOrEqual(t, n, tt.max, "duration %d", tt.duration)
	}
}

func TestGenerateDisabledPhasesAreEmpty(t *testing.T) {
	catalog := &fakeCatalog{exercises: chestExercises(20, domain.LevelIntermediate)}
	g := seededGenerator(catalog, 3)

	workout, err := g.Generate(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Empty(t, workout.Warmup.Exercises)
	assert.Zero(t, workout.Warmup.EstimatedCalories)
	assert.Empty(t, workout.Stretches.Exercises)
	assert.NotEmpty(t, workout.MainCourse.Exercises)

	// Total calories come from the main phase alone.
	var mainTotal float64
	for _, ex := range workout.MainCourse.Exercises {
		mainTotal += ex.EstimatedCalories
	}
	assert.InDelta(t, mainTotal, workout.EstimatedTotalCalories, 0.11)
}

func TestGenerateCascadeIsMonotonic(t *testing.T) {
	// Plenty of exact matches: no relaxed query may reach the catalog and no
	// emergency exercise may appear.
	catalog := &fakeCatalog{exercises: chestExercises(20, domain.LevelIntermediate)}
	g := seededGenerator(catalog, 11)

	workout, err := g.Generate(context.Background(), baseRequest())
	require.NoError(t, err)

	for _, q := range catalog.queries {
		assert.Equal(t, "Chest", q.BodyPart)
		assert.Equal(t, domain.LevelIntermediate, q.Level)
		assert.Equal(t, domain.CategoryStrength, q.Category)
	}
	for _, ex := range workout.MainCourse.Exercises {
		assert.False(t, IsEmergencyExercise(ex.ExerciseID), "unexpected emergency exercise %s", ex.ExerciseID)
	}
}

func TestGenerateLevelRelaxationBeforeBodyPartRelaxation(t *testing.T) {
	// Exactly 2 intermediate Chest exercises but 8 expert ones: the cascade
	// must fill the phase by relaxing level, never touching body part or the
	// emergency list, and must not duplicate the exact matches.
	exercises := append(chestExercises(2, domain.LevelIntermediate), chestExercises(8, domain.LevelExpert)...)
	catalog := &fakeCatalog{exercises: exercises}
	g := seededGenerator(catalog, 5)

	workout, err := g.Generate(context.Background(), baseRequest())
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, ex := range workout.MainCourse.Exercises {
		assert.False(t, seen[ex.ExerciseID], "duplicate exercise %s", ex.ExerciseID)
		seen[ex.ExerciseID] = true
		assert.False(t, IsEmergencyExercise(ex.ExerciseID))
	}
	for _, q := range catalog.queries {
		assert.Equal(t, "Chest", q.BodyPart, "body part constraint must not be relaxed")
	}
}

func TestGenerateEmptyCatalogFallsToEmergencyList(t *testing.T) {
	g := seededGenerator(&fakeCatalog{}, 13)

	req := baseRequest()
	req.IncludeWarmup = true
	req.IncludeStretches = true
	workout, err := g.Generate(context.Background(), req)
	require.NoError(t, err)

	all := workout.AllExercises()
	require.NotEmpty(t, all)
	for _, ex := range all {
		assert.True(t, IsEmergencyExercise(ex.ExerciseID), "non-emergency exercise %s from empty catalog", ex.ExerciseID)
	}
}

func TestGenerateCatalogErrorDegradesToEmergencyList(t *testing.T) {
	catalog := &fakeCatalog{err: fmt.Errorf("connection refused")}
	g := seededGenerator(catalog, 17)

	workout, err := g.Generate(context.Background(), baseRequest())
	require.NoError(t, err)
	require.NotEmpty(t, workout.MainCourse.Exercises)
	for _, ex := range workout.MainCourse.Exercises {
		assert.True(t, IsEmergencyExercise(ex.ExerciseID))
	}
}

func TestGenerateNoDuplicateAcrossPhases(t *testing.T) {
	exercises := chestExercises(10, domain.LevelIntermediate)
	exercises = append(exercises,
		domain.Exercise{ExerciseID: "w1", Title: "March in Place", BodyPart: "Full Body", Equipment: "Body Only",
			Level: domain.LevelBeginner, Category: domain.CategoryWarmup, MET: 4.0},
		domain.Exercise{ExerciseID: "s1", Title: "Chest Stretch", BodyPart: "Chest", Equipment: "Body Only",
			Level: domain.LevelIntermediate, Category: domain.CategoryStretching, MET: 2.5},
	)
	catalog := &fakeCatalog{exercises: exercises}
	g := seededGenerator(catalog, 19)

	req := baseRequest()
	req.IncludeWarmup = true
	req.IncludeStretches = true
	workout, err := g.Generate(context.Background(), req)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, ex := range workout.AllExercises() {
		assert.False(t, seen[ex.ExerciseID], "duplicate exercise %s", ex.ExerciseID)
		seen[ex.ExerciseID] = true
	}
}

func TestGenerateCaloriesMatchEstimatorFormula(t *testing.T) {
	catalog := &fakeCatalog{exercises: chestExercises(20, domain.LevelIntermediate)}
	g := seededGenerator(catalog, 23)

	req := baseRequest()
	workout, err := g.Generate(context.Background(), req)
	require.NoError(t, err)

	for _, ex := range workout.MainCourse.Exercises {
		want := ex.MET * req.WeightKg * ex.DurationMinutes / 60.0
		assert.InDelta(t, want, ex.EstimatedCalories, 0.06, "exercise %s", ex.ExerciseID)
		assert.Positive(t, ex.Sets)
		assert.Positive(t, ex.Reps)
		assert.GreaterOrEqual(t, ex.EstimatedCalories, 0.0)
	}
}

func TestGeneratePrescriptionFollowsLevelTable(t *testing.T) {
	tests := []struct {
		level            domain.FitnessLevel
		sets, reps, rest int
	}{
		{domain.LevelBeginner, 3, 12, 60},
		{domain.LevelIntermediate, 3, 10, 90},
		{domain.LevelExpert, 4, 8, 120},
	}
	for _, tt := range tests {
		catalog := &fakeCatalog{exercises: append(
			chestExercises(10, tt.level),
			chestExercises(10, domain.LevelIntermediate)...)}
		g := seededGenerator(catalog, 29)
		req := baseRequest()
		req.FitnessLevel = tt.level
		workout, err := g.Generate(context.Background(), req)
		require.NoError(t, err)
		require.NotEmpty(t, workout.MainCourse.Exercises)
		for _, ex := range workout.MainCourse.Exercises {
			assert.Equal(t, tt.sets, ex.Sets)
			assert.Equal(t, tt.reps, ex.Reps)
			assert.Equal(t, tt.rest, ex.RestSeconds)
		}
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	exercises := chestExercises(25, domain.LevelIntermediate)

	run := func() *domain.GeneratedWorkout {
		catalog := &fakeCatalog{exercises: exercises}
		g := seededGenerator(catalog, 42, WithClock(func() time.Time {
			return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		}))
		w, err := g.Generate(context.Background(), baseRequest())
		require.NoError(t, err)
		return w
	}

	a, b := run(), run()
	require.Equal(t, len(a.MainCourse.Exercises), len(b.MainCourse.Exercises))
	for i := range a.MainCourse.Exercises {
		assert.Equal(t, a.MainCourse.Exercises[i].ExerciseID, b.MainCourse.Exercises[i].ExerciseID)
	}
}

func TestGenerateRecencyDeprioritizesRecentExercises(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	exercises := chestExercises(10, domain.LevelIntermediate)

	// Mark half the pool as used yesterday; the other half was never logged.
	recent := map[string]time.Time{}
	for i := 0; i < 5; i++ {
		recent[exercises[i].ExerciseID] = now.Add(-24 * time.Hour)
	}

	catalog := &fakeCatalog{exercises: exercises}
	g := seededGenerator(catalog, 31,
		WithRecency(&fakeRecency{lastUsed: recent}),
		WithClock(func() time.Time { return now }),
	)

	req := baseRequest()
	req.DurationMinutes = 45 // target 5 of 10 candidates
	workout, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, workout.MainCourse.Exercises, 5)

	// The -0.3 penalty dwarfs the 0.1 jitter, so every selected exercise
	// should come from the fresh half.
	for _, ex := range workout.MainCourse.Exercises {
		_, wasRecent := recent[ex.ExerciseID]
		assert.False(t, wasRecent, "recently used exercise %s selected over fresh ones", ex.ExerciseID)
	}
}

func TestGenerateShortSessionDropsOptionalPhases(t *testing.T) {
	catalog := &fakeCatalog{exercises: chestExercises(20, domain.LevelIntermediate)}
	g := seededGenerator(catalog, 37)

	req := baseRequest()
	req.DurationMinutes = 20 // 20 - 8 - 7 leaves < 10 for the main course
	req.IncludeWarmup = true
	req.IncludeStretches = true
	workout, err := g.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Empty(t, workout.Warmup.Exercises)
	assert.Empty(t, workout.Stretches.Exercises)
	assert.NotEmpty(t, workout.MainCourse.Exercises)
}
