package generator

import (
	"fmt"

	"fitgen/fitness-backend/internal/calories"
	"fitgen/fitness-backend/internal/domain"
)

// mainPrescription is the fixed sets/reps/rest table for the main course.
type mainPrescription struct {
	sets, reps, restSeconds int
}

var mainByLevel = map[domain.FitnessLevel]mainPrescription{
	domain.LevelBeginner:     {sets: 3, reps: 12, restSeconds: 60},
	domain.LevelIntermediate: {sets: 3, reps: 10, restSeconds: 90},
	domain.LevelExpert:       {sets: 4, reps: 8, restSeconds: 120},
}

// Warmup: one light set, no rest. Stretches: two timed holds per side.
const (
	warmupSets       = 1
	warmupRepsCardio = 20
	warmupReps       = 10
	stretchSets      = 2
	stretchReps      = 1
	stretchHoldLow   = 30
	stretchHoldHigh  = 60
)

// prescribe turns a selected catalog exercise into a PlannedExercise:
// sets/reps/rest from the level table, calories from the estimator, and
// phase-appropriate notes.
func (g *Generator) prescribe(
	phase domain.Phase,
	ex domain.Exercise,
	req domain.WorkoutRequest,
	minutes float64,
	order int,
) domain.PlannedExercise {
	var sets, reps, rest int
	switch phase {
	case domain.PhaseWarmup:
		sets = warmupSets
		reps = warmupReps
		if ex.Category == domain.CategoryCardio {
			reps = warmupRepsCardio
		}
	case domain.PhaseStretches:
		sets = stretchSets
		reps = stretchReps
	default:
		p := mainByLevel[req.FitnessLevel]
		sets, reps, rest = p.sets, p.reps, p.restSeconds
	}

	met := ex.MET
	if met <= 0 {
		met = calories.MET(ex.Category, req.FitnessLevel)
	}
	if phase == domain.PhaseStretches {
		// Holds burn at the stretching rate regardless of how the catalog
		// categorized the movement.
		met = calories.MET(domain.CategoryStretching, req.FitnessLevel)
	}

	return domain.PlannedExercise{
		ExerciseID:        ex.ExerciseID,
		Title:             ex.Title,
		Description:       ex.Description,
		DurationMinutes:   minutes,
		Sets:              sets,
		Reps:              reps,
		RestSeconds:       rest,
		MET:               met,
		EstimatedCalories: calories.Burned(met, req.WeightKg, minutes),
		VideoURL:          ex.VideoURL,
		Order:             order,
		Phase:             phase,
		Notes:             phaseNotes(phase, ex, req.FitnessLevel),
		Modifications:     modifications(ex, req.FitnessLevel),
	}
}

func phaseNotes(phase domain.Phase, ex domain.Exercise, level domain.FitnessLevel) string {
	switch phase {
	case domain.PhaseWarmup:
		return "Keep the pace easy; the goal is raising body temperature, not fatigue"
	case domain.PhaseStretches:
		return fmt.Sprintf("Hold each stretch %d-%d seconds per side, breathe slowly", stretchHoldLow, stretchHoldHigh)
	default:
		cue := ex.Description
		if cue == "" {
			cue = "Execute with control"
		}
		return "Form cue: " + cue
	}
}

func modifications(ex domain.Exercise, level domain.FitnessLevel) []string {
	var mods []string
	if level == domain.LevelBeginner {
		mods = append(mods, "Reduce weight. Focus on form")
	}
	if level == domain.LevelBeginner && ex.Level == domain.LevelExpert {
		mods = append(mods, "Use an assisted or partial-range variation")
	}
	return mods
}
