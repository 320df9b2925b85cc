// Package generator assembles three-phase workouts (warmup, main course,
// stretches) from the exercise catalog. Its defining property is that
// generation degrades instead of failing: thin query results walk a fallback
// cascade of relaxed filters and, at worst, a built-in emergency exercise
// list. Only a malformed request is an error.
package generator

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fitgen/fitness-backend/internal/domain"
)

// Catalog is the read side of the exercise dataset the generator consumes.
type Catalog interface {
	Find(ctx context.Context, filter domain.ExerciseFilter, limit int64) ([]domain.Exercise, error)
}

// RecencyProvider supplies last-used timestamps so selection can deprioritize
// exercises the user has done recently. Optional; selection falls back to
// uniform random choice without it.
type RecencyProvider interface {
	LastUsed(ctx context.Context, userID string, exerciseIDs []string) (map[string]time.Time, error)
}

// Phase time budget and candidate pool sizing.
const (
	warmupBudgetMinutes    = 8
	stretchesBudgetMinutes = 7
	minMainMinutes         = 10

	mainMinutesPerExercise = 8
	mainMinExercises       = 5
	mainMaxExercises       = 8
	warmupMinExercises     = 2
	warmupMaxExercises     = 3
	stretchesMinExercises  = 3
	stretchesMaxExercises  = 5

	catalogQueryLimit = 50
)

// Selection scoring. Recently used exercises are penalized, a small random
// jitter keeps plans varied, and higher rated exercises win ties.
const (
	recencyPenalty   = -0.3
	varietyWeight    = 0.1
	ratingWeight     = 0.02
	recencyWindowDur = 14 * 24 * time.Hour
)

// Generator builds workouts from a catalog. One Generator is shared across
// request goroutines; the mutex serializes access to the random source, which
// is the only mutable state.
type Generator struct {
	catalog Catalog
	recency RecencyProvider // may be nil
	mu      sync.Mutex
	rng     *rand.Rand
	now     func() time.Time
	log     *logrus.Entry
}

// Option configures a Generator.
type Option func(*Generator)

// WithRecency wires the optional recency signal into selection scoring.
func WithRecency(r RecencyProvider) Option {
	return func(g *Generator) { g.recency = r }
}

// WithRand injects a deterministic random source, used by tests.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) { g.rng = rng }
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New creates a Generator over the given catalog.
func New(catalog Catalog, logger *logrus.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	g := &Generator{
		catalog: catalog,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
		log:     logger.WithField("component", "generator"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces a workout for the request. It returns an error only for
// malformed input (domain.ErrInvalidRequest); every data-availability problem
// degrades through the fallback cascade.
func (g *Generator) Generate(ctx context.Context, req domain.WorkoutRequest) (*domain.GeneratedWorkout, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	includeWarmup := req.IncludeWarmup
	includeStretches := req.IncludeStretches

	warmupMinutes := 0
	stretchesMinutes := 0
	if includeWarmup {
		warmupMinutes = warmupBudgetMinutes
	}
	if includeStretches {
		stretchesMinutes = stretchesBudgetMinutes
	}
	mainMinutes := req.DurationMinutes - warmupMinutes - stretchesMinutes
	if mainMinutes < minMainMinutes {
		// Too short to split: the whole session becomes the main course.
		mainMinutes = req.DurationMinutes
		warmupMinutes = 0
		stretchesMinutes = 0
		includeWarmup = false
		includeStretches = false
	}

	picked := map[string]bool{}

	workout := &domain.GeneratedWorkout{
		WorkoutID:       "wk_" + uuid.NewString(),
		UserID:          req.UserID,
		GeneratedAt:     g.now().UTC(),
		TargetBodyParts: req.TargetBodyParts,
		FitnessLevel:    req.FitnessLevel,
	}

	if includeWarmup {
		workout.Warmup = g.buildPhase(ctx, domain.PhaseWarmup, req, warmupMinutes, picked)
	}
	workout.MainCourse = g.buildPhase(ctx, domain.PhaseMainCourse, req, mainMinutes, picked)
	if includeStretches {
		workout.Stretches = g.buildPhase(ctx, domain.PhaseStretches, req, stretchesMinutes, picked)
	}

	for _, ex := range workout.AllExercises() {
		workout.TotalDurationMinutes += ex.DurationMinutes
		workout.EstimatedTotalCalories += ex.EstimatedCalories
	}
	workout.TotalDurationMinutes = round1(workout.TotalDurationMinutes)
	workout.EstimatedTotalCalories = round1(workout.EstimatedTotalCalories)

	g.log.WithFields(logrus.Fields{
		"workout_id": workout.WorkoutID,
		"user_id":    req.UserID,
		"exercises":  len(workout.AllExercises()),
	}).Info("generated workout")

	return workout, nil
}

// buildPhase selects and prescribes the exercises for one phase. It always
// returns a phase, possibly empty when even the emergency list is exhausted
// by dedup against earlier phases.
func (g *Generator) buildPhase(
	ctx context.Context,
	phase domain.Phase,
	req domain.WorkoutRequest,
	phaseMinutes int,
	picked map[string]bool,
) domain.WorkoutPhase {
	target := g.targetCount(phase, phaseMinutes)
	candidates, level := g.collectCandidates(ctx, phase, g.phaseFilters(phase, req), target, picked)
	if level != RelaxNone {
		g.log.WithFields(logrus.Fields{
			"phase":      phase,
			"relaxation": level.String(),
			"candidates": len(candidates),
		}).Debug("fallback cascade relaxed phase filters")
	}
	if len(candidates) == 0 {
		return domain.WorkoutPhase{Exercises: []domain.PlannedExercise{}}
	}

	selected := g.selectExercises(ctx, req.UserID, candidates, target)

	perExercise := float64(phaseMinutes) / float64(len(selected))
	out := domain.WorkoutPhase{Exercises: make([]domain.PlannedExercise, 0, len(selected))}
	for i, ex := range selected {
		picked[ex.ExerciseID] = true
		planned := g.prescribe(phase, ex, req, round1(perExercise), i+1)
		out.DurationMinutes += planned.DurationMinutes
		out.EstimatedCalories += planned.EstimatedCalories
		out.Exercises = append(out.Exercises, planned)
	}
	out.DurationMinutes = round1(out.DurationMinutes)
	out.EstimatedCalories = round1(out.EstimatedCalories)
	return out
}

// targetCount computes how many exercises a phase should hold. The main
// course scales with duration; warmup and stretches use small fixed ranges.
func (g *Generator) targetCount(phase domain.Phase, phaseMinutes int) int {
	switch phase {
	case domain.PhaseWarmup:
		return warmupMinExercises + g.intn(warmupMaxExercises-warmupMinExercises+1)
	case domain.PhaseStretches:
		return stretchesMinExercises + g.intn(stretchesMaxExercises-stretchesMinExercises+1)
	default:
		n := phaseMinutes / mainMinutesPerExercise
		if n < mainMinExercises {
			n = mainMinExercises
		}
		if n > mainMaxExercises {
			n = mainMaxExercises
		}
		return n
	}
}

// phaseFilters builds the exact (pre-relaxation) filters for a phase. Only
// the main course targets the requested body parts; warmup and stretches are
// generic by design.
func (g *Generator) phaseFilters(phase domain.Phase, req domain.WorkoutRequest) []domain.ExerciseFilter {
	switch phase {
	case domain.PhaseWarmup:
		return []domain.ExerciseFilter{{Category: domain.CategoryWarmup, Level: domain.LevelBeginner}}
	case domain.PhaseStretches:
		return []domain.ExerciseFilter{{Category: domain.CategoryStretching, Level: req.FitnessLevel}}
	default:
		filters := make([]domain.ExerciseFilter, 0, len(req.TargetBodyParts))
		for _, bp := range req.TargetBodyParts {
			filters = append(filters, domain.ExerciseFilter{
				BodyPart: bp,
				Level:    req.FitnessLevel,
				Category: domain.CategoryStrength,
			})
		}
		return filters
	}
}

// selectExercises picks up to target candidates without replacement. With a
// recency signal available the pool is scored and the top entries win;
// otherwise selection is a uniform random sample.
func (g *Generator) selectExercises(ctx context.Context, userID string, pool []domain.Exercise, target int) []domain.Exercise {
	if target > len(pool) {
		target = len(pool)
	}

	lastUsed := g.lastUsed(ctx, userID, pool)
	if lastUsed == nil {
		g.shuffle(pool)
		return pool[:target]
	}

	type scored struct {
		ex    domain.Exercise
		score float64
	}
	cutoff := g.now().Add(-recencyWindowDur)
	scoredPool := make([]scored, 0, len(pool))
	for _, ex := range pool {
		s := ratingWeight*ex.Rating + varietyWeight*g.float64()
		if used, ok := lastUsed[ex.ExerciseID]; ok && used.After(cutoff) {
			s += recencyPenalty
		}
		scoredPool = append(scoredPool, scored{ex: ex, score: s})
	}
	sort.SliceStable(scoredPool, func(i, j int) bool { return scoredPool[i].score > scoredPool[j].score })

	out := make([]domain.Exercise, 0, target)
	for _, s := range scoredPool[:target] {
		out = append(out, s.ex)
	}
	return out
}

func (g *Generator) lastUsed(ctx context.Context, userID string, pool []domain.Exercise) map[string]time.Time {
	if g.recency == nil || userID == "" {
		return nil
	}
	ids := make([]string, 0, len(pool))
	for _, ex := range pool {
		ids = append(ids, ex.ExerciseID)
	}
	lastUsed, err := g.recency.LastUsed(ctx, userID, ids)
	if err != nil {
		g.log.WithError(err).Debug("recency lookup failed, using uniform selection")
		return nil
	}
	if len(lastUsed) == 0 {
		return nil
	}
	return lastUsed
}

func (g *Generator) intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Intn(n)
}

func (g *Generator) float64() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Float64()
}

func (g *Generator) shuffle(pool []domain.Exercise) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
}

func round1(v float64) float64 {
	// Keep phase and workout totals at the same precision as per-exercise
	// estimates from the calories package.
	return math.Round(v*10) / 10
}
