package generator

import (
	"context"

	"fitgen/fitness-backend/internal/domain"
)

// RelaxationLevel identifies one step of the fallback cascade. Levels are
// tried in order and the cascade stops at the first level that yields enough
// candidates.
type RelaxationLevel int

const (
	RelaxNone RelaxationLevel = iota // exact body part + level + category
	RelaxLevel
	RelaxBodyPart
	RelaxLevelAndBodyPart
	RelaxCategory // any exercise suited to the phase's general purpose
	RelaxEmergency
)

func (l RelaxationLevel) String() string {
	switch l {
	case RelaxNone:
		return "exact"
	case RelaxLevel:
		return "level relaxed"
	case RelaxBodyPart:
		return "body part relaxed"
	case RelaxLevelAndBodyPart:
		return "level and body part relaxed"
	case RelaxCategory:
		return "category dropped"
	case RelaxEmergency:
		return "emergency fallback"
	}
	return "unknown"
}

// relax rewrites the exact filter for a relaxation level. The emergency level
// has no filter; callers switch to the static list instead.
func relax(f domain.ExerciseFilter, level RelaxationLevel) domain.ExerciseFilter {
	switch level {
	case RelaxLevel:
		f.Level = ""
	case RelaxBodyPart:
		f.BodyPart = ""
	case RelaxLevelAndBodyPart:
		f.Level = ""
		f.BodyPart = ""
	case RelaxCategory:
		f.Level = ""
		f.BodyPart = ""
		f.Category = ""
	}
	return f
}

// cascadeOrder is the full relaxation sequence evaluated per phase.
var cascadeOrder = []RelaxationLevel{
	RelaxNone,
	RelaxLevel,
	RelaxBodyPart,
	RelaxLevelAndBodyPart,
	RelaxCategory,
}

// collectCandidates walks the cascade for the phase's exact filters and
// returns the first candidate set reaching target, deduplicated by exercise
// id and with already-picked ids excluded. A catalog error at any level jumps
// straight to the emergency list; so does an empty result at every level.
//
// The returned level reports how far the cascade had to relax, which the
// generator logs and tests assert on.
func (g *Generator) collectCandidates(
	ctx context.Context,
	phase domain.Phase,
	exact []domain.ExerciseFilter,
	target int,
	exclude map[string]bool,
) ([]domain.Exercise, RelaxationLevel) {
	var tried [][]domain.ExerciseFilter
	for _, level := range cascadeOrder {
		relaxed := make([]domain.ExerciseFilter, len(exact))
		for i, f := range exact {
			relaxed[i] = relax(f, level)
		}
		// Filters without a body part (warmup, stretches) make some levels
		// no-ops; re-issuing an identical query cannot grow the pool.
		if alreadyTried(tried, relaxed) {
			continue
		}
		tried = append(tried, relaxed)

		var pool []domain.Exercise
		seen := map[string]bool{}
		for _, f := range relaxed {
			found, err := g.catalog.Find(ctx, f, catalogQueryLimit)
			if err != nil {
				g.log.WithError(err).WithField("phase", phase).
					Warn("catalog unreachable, using emergency fallback")
				return emergencyCandidates(phase, exclude), RelaxEmergency
			}
			for _, ex := range found {
				if ex.ExerciseID == "" || seen[ex.ExerciseID] || exclude[ex.ExerciseID] {
					continue
				}
				seen[ex.ExerciseID] = true
				pool = append(pool, ex)
			}
		}
		if len(pool) >= target {
			return pool, level
		}
		// The last query level has the widest filter; a short pool there is
		// still better than the emergency list.
		if level == RelaxCategory && len(pool) > 0 {
			return pool, level
		}
	}
	return emergencyCandidates(phase, exclude), RelaxEmergency
}

// alreadyTried reports whether the filter slice was issued at an earlier
// cascade level.
func alreadyTried(tried [][]domain.ExerciseFilter, filters []domain.ExerciseFilter) bool {
	for _, prev := range tried {
		if len(prev) != len(filters) {
			continue
		}
		same := true
		for i := range prev {
			if prev[i] != filters[i] {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}

// emergencyExercises is the built-in last resort: universally safe bodyweight
// movements served when the catalog yields nothing or cannot be reached.
var emergencyExercises = []domain.Exercise{
	{ExerciseID: "fallback_001", Title: "Push-ups", BodyPart: "Chest", Equipment: "Body Only",
		Level: domain.LevelBeginner, Category: domain.CategoryStrength, Rating: 9.0, MET: 3.5,
		Description: "Basic upper body pressing exercise"},
	{ExerciseID: "fallback_002", Title: "Bodyweight Squats", BodyPart: "Quadriceps", Equipment: "Body Only",
		Level: domain.LevelBeginner, Category: domain.CategoryStrength, Rating: 9.0, MET: 3.5,
		Description: "Fundamental lower body exercise"},
	{ExerciseID: "fallback_003", Title: "Plank", BodyPart: "Abdominals", Equipment: "Body Only",
		Level: domain.LevelBeginner, Category: domain.CategoryStrength, Rating: 8.5, MET: 3.5,
		Description: "Core stability exercise"},
	{ExerciseID: "fallback_004", Title: "Lunges", BodyPart: "Hamstrings", Equipment: "Body Only",
		Level: domain.LevelBeginner, Category: domain.CategoryStrength, Rating: 8.5, MET: 3.5,
		Description: "Single leg strength exercise"},
	{ExerciseID: "fallback_005", Title: "Jumping Jacks", BodyPart: "Full Body", Equipment: "Body Only",
		Level: domain.LevelBeginner, Category: domain.CategoryCardio, Rating: 8.0, MET: 5.0,
		Description: "Full body cardio exercise"},
	{ExerciseID: "fallback_006", Title: "Burpees", BodyPart: "Full Body", Equipment: "Body Only",
		Level: domain.LevelIntermediate, Category: domain.CategoryStrength, Rating: 8.5, MET: 5.0,
		Description: "Full body compound exercise"},
	{ExerciseID: "fallback_007", Title: "Mountain Climbers", BodyPart: "Full Body", Equipment: "Body Only",
		Level: domain.LevelIntermediate, Category: domain.CategoryCardio, Rating: 8.0, MET: 7.0,
		Description: "Cardio and core exercise"},
}

var emergencyWarmup = []domain.Exercise{
	{ExerciseID: "fallback_warmup_1", Title: "Jumping Jacks", BodyPart: "Full Body", Equipment: "Body Only",
		Level: domain.LevelBeginner, Category: domain.CategoryWarmup, Rating: 8.0, MET: 4.0,
		Description: "Full body warmup exercise"},
	{ExerciseID: "fallback_warmup_2", Title: "Arm Circles", BodyPart: "Shoulders", Equipment: "Body Only",
		Level: domain.LevelBeginner, Category: domain.CategoryWarmup, Rating: 7.5, MET: 3.5,
		Description: "Shoulder warmup exercise"},
}

var emergencyStretches = []domain.Exercise{
	{ExerciseID: "fallback_stretch_1", Title: "Hamstring Stretch", BodyPart: "Hamstrings", Equipment: "Body Only",
		Level: domain.LevelBeginner, Category: domain.CategoryStretching, Rating: 8.0, MET: 2.5,
		Description: "Stretch hamstrings and lower back"},
	{ExerciseID: "fallback_stretch_2", Title: "Quad Stretch", BodyPart: "Quadriceps", Equipment: "Body Only",
		Level: domain.LevelBeginner, Category: domain.CategoryStretching, Rating: 7.5, MET: 2.5,
		Description: "Standing quadriceps stretch"},
	{ExerciseID: "fallback_stretch_3", Title: "Shoulder Stretch", BodyPart: "Shoulders", Equipment: "Body Only",
		Level: domain.LevelBeginner, Category: domain.CategoryStretching, Rating: 7.5, MET: 2.5,
		Description: "Cross-body shoulder stretch"},
}

// emergencyCandidates returns a copy of the phase's static list minus any
// already-picked ids.
func emergencyCandidates(phase domain.Phase, exclude map[string]bool) []domain.Exercise {
	var src []domain.Exercise
	switch phase {
	case domain.PhaseWarmup:
		src = emergencyWarmup
	case domain.PhaseStretches:
		src = emergencyStretches
	default:
		src = emergencyExercises
	}
	out := make([]domain.Exercise, 0, len(src))
	for _, ex := range src {
		if !exclude[ex.ExerciseID] {
			out = append(out, ex)
		}
	}
	return out
}

// IsEmergencyExercise reports whether the id belongs to the built-in
// fallback lists. Exposed for tests and diagnostics.
func IsEmergencyExercise(exerciseID string) bool {
	for _, list := range [][]domain.Exercise{emergencyExercises, emergencyWarmup, emergencyStretches} {
		for _, ex := range list {
			if ex.ExerciseID == exerciseID {
				return true
			}
		}
	}
	return false
}
