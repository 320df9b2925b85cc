// Package calories implements MET-based calorie and duration estimation.
//
// Everything in this package is a pure function over immutable lookup tables
// and is safe to call from any number of goroutines.
package calories

import (
	"math"
	"strings"

	"fitgen/fitness-backend/internal/domain"
)

// DefaultMET is returned for categories missing from the MET table. Workout
// generation must never be blocked by an unknown category, so the estimator
// degrades to this value instead of returning an error.
const DefaultMET = 4.5

// metByLevel holds MET values for categories whose energy cost scales with
// the performer's fitness level.
var metByLevel = map[string]map[domain.FitnessLevel]float64{
	domain.CategoryStrength: {
		domain.LevelBeginner:     3.5,
		domain.LevelIntermediate: 5.0,
		domain.LevelExpert:       6.0,
	},
	domain.CategoryCardio: {
		domain.LevelBeginner:     5.0,
		domain.LevelIntermediate: 7.0,
		domain.LevelExpert:       10.0,
	},
}

// metFixed holds level-independent MET values.
var metFixed = map[string]float64{
	domain.CategoryStretching: 2.5,
	domain.CategoryWarmup:     4.0,
	"Plyometrics":             8.0,
	"Powerlifting":            6.0,
	"Olympic Weightlifting":   6.0,
	"Strongman":               7.0,
	"Crossfit":                8.0,
	domain.CategoryHIIT:       10.0,
	"Yoga":                    2.5,
	"Pilates":                 3.0,
	"Circuit Training":        8.0,
}

// MET returns the MET value for an exercise category at a fitness level.
// Unknown categories yield DefaultMET; an unknown level within a
// level-dependent category falls back to the Intermediate value.
func MET(category string, level domain.FitnessLevel) float64 {
	category = strings.TrimSpace(category)

	if byLevel, ok := metByLevel[category]; ok {
		if met, ok := byLevel[level]; ok {
			return met
		}
		return byLevel[domain.LevelIntermediate]
	}
	if met, ok := metFixed[category]; ok {
		return met
	}
	return DefaultMET
}

// Burned computes kilocalories via MET × weight(kg) × time(hours), rounded
// to one decimal place. Non-positive inputs yield zero.
func Burned(met, weightKg, durationMinutes float64) float64 {
	if met <= 0 || weightKg <= 0 || durationMinutes <= 0 {
		return 0
	}
	return round1(met * weightKg * durationMinutes / 60.0)
}

// ForExercise is the composed estimate: MET lookup plus the burn formula.
func ForExercise(category string, level domain.FitnessLevel, weightKg, durationMinutes float64) float64 {
	return Burned(MET(category, level), weightKg, durationMinutes)
}

// secondsPerRep estimates working time for one repetition by category.
// Stretching "reps" are timed holds.
var secondsPerRep = map[string]float64{
	domain.CategoryStrength:   4,
	domain.CategoryCardio:     3,
	domain.CategoryStretching: 30,
	domain.CategoryWarmup:     4,
	"Plyometrics":             2,
}

const defaultSecondsPerRep = 3

// EstimateDuration converts a sets/reps/rest prescription into elapsed
// minutes, used when a duration is not supplied directly. Rest is counted
// between sets only.
func EstimateDuration(category string, sets, reps, restSeconds int) float64 {
	if sets <= 0 || reps <= 0 {
		return 0
	}
	perRep, ok := secondsPerRep[strings.TrimSpace(category)]
	if !ok {
		perRep = defaultSecondsPerRep
	}
	work := float64(sets) * float64(reps) * perRep
	rest := 0.0
	if sets > 1 {
		rest = float64(restSeconds) * float64(sets-1)
	}
	return round1((work + rest) / 60.0)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
