// Package ml holds the training readiness gate and the retraining extension
// point. No model lives in this system; the gate is a pure threshold check
// over logged session counts, and Retrainer has no implementations.
package ml

import "time"

// Gate decides whether a user has logged enough recent sessions to justify
// model retraining.
type Gate struct {
	WindowDays  int
	MinSessions int
}

// Ready reports whether the session count inside the trailing window clears
// the configured minimum.
func (g Gate) Ready(sessionCount int) bool {
	return sessionCount >= g.MinSessions
}

// WindowStart returns the start of the trailing window relative to now.
func (g Gate) WindowStart(now time.Time) time.Time {
	return now.AddDate(0, 0, -g.WindowDays)
}

// CountSessions counts unique workout ids among entries whose completion time
// falls inside the window. Entries are (workoutID, completedAt) pairs so the
// caller can feed log rows without depending on this package's shape.
func (g Gate) CountSessions(now time.Time, entries []SessionStamp) int {
	cutoff := g.WindowStart(now)
	seen := map[string]bool{}
	for _, e := range entries {
		if e.WorkoutID == "" || e.CompletedAt.Before(cutoff) {
			continue
		}
		seen[e.WorkoutID] = true
	}
	return len(seen)
}

// SessionStamp is the minimal slice of a log entry the gate needs.
type SessionStamp struct {
	WorkoutID   string
	CompletedAt time.Time
}

// Retrainer is the extension point for a future model-retraining pipeline.
// Nothing in this repository implements it; the gate only signals readiness.
type Retrainer interface {
	Retrain(userID string) error
}
