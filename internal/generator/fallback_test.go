package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"fitgen/fitness-backend/internal/domain"
)

func TestRelaxProgressivelyWidensFilters(t *testing.T) {
	exact := domain.ExerciseFilter{
		BodyPart: "Back",
		Level:    domain.LevelExpert,
		Category: domain.CategoryStrength,
	}

	assert.Equal(t, exact, relax(exact, RelaxNone))

	f := relax(exact, RelaxLevel)
	assert.Empty(t, f.Level)
	assert.Equal(t, "Back", f.BodyPart)
	assert.Equal(t, domain.CategoryStrength, f.Category)

	f = relax(exact, RelaxBodyPart)
	assert.Empty(t, f.BodyPart)
	assert.Equal(t, domain.LevelExpert, f.Level)

	f = relax(exact, RelaxLevelAndBodyPart)
	assert.Empty(t, f.BodyPart)
	assert.Empty(t, f.Level)
	assert.Equal(t, domain.CategoryStrength, f.Category)

	f = relax(exact, RelaxCategory)
	assert.Equal(t, domain.ExerciseFilter{}, f)
}

func TestCollectCandidatesSkipsRedundantCascadeLevels(t *testing.T) {
	// Warmup filters carry no body part, so relaxing the body part changes
	// nothing; those cascade levels must not hit the catalog again.
	catalog := &fakeCatalog{}
	g := seededGenerator(catalog, 1)

	pool, level := g.collectCandidates(context.Background(), domain.PhaseWarmup,
		g.phaseFilters(domain.PhaseWarmup, baseRequest()), 3, nil)
	assert.Equal(t, RelaxEmergency, level)
	assert.NotEmpty(t, pool)

	seen := map[domain.ExerciseFilter]bool{}
	for _, q := range catalog.queries {
		assert.False(t, seen[q], "duplicate catalog query %+v", q)
		seen[q] = true
	}
	// exact, level relaxed, category dropped; the two body part relaxations
	// collapse into earlier levels.
	assert.Len(t, catalog.queries, 3)
}

func TestEmergencyCandidatesExcludePickedIDs(t *testing.T) {
	picked := map[string]bool{"fallback_001": true, "fallback_005": true}
	out := emergencyCandidates(domain.PhaseMainCourse, picked)

	assert.Len(t, out, len(emergencyExercises)-2)
	for _, ex := range out {
		assert.False(t, picked[ex.ExerciseID])
	}
}

func TestEmergencyListsArePhaseAppropriate(t *testing.T) {
	for _, ex := range emergencyCandidates(domain.PhaseWarmup, nil) {
		assert.Equal(t, domain.CategoryWarmup, ex.Category)
	}
	for _, ex := range emergencyCandidates(domain.PhaseStretches, nil) {
		assert.Equal(t, domain.CategoryStretching, ex.Category)
	}
	assert.NotEmpty(t, emergencyCandidates(domain.PhaseMainCourse, nil))

	assert.True(t, IsEmergencyExercise("fallback_stretch_1"))
	assert.False(t, IsEmergencyExercise("bench_press"))
}
