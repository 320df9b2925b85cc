package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"fitgen/fitness-backend/internal/domain"
	"fitgen/fitness-backend/internal/ml"
	"fitgen/fitness-backend/internal/repository"
)

// --- Error Definitions ---
var (
	ErrInvalidLogEntry = errors.New("invalid exercise log entry")
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrLogStoreFailed  = errors.New("failed to persist exercise log")
	ErrInvalidMLConfig = errors.New("invalid ml training config")
)

// CompletedSetsBuffer allows logging a few sets beyond the plan (extra
// finisher sets are common); anything above planned+buffer is rejected as a
// client error.
const CompletedSetsBuffer = 2

const (
	defaultHistoryPerPage = 50
	maxHistoryPerPage     = 200
	defaultSummaryDays    = 30
	analyticsFetchLimit   = 1000
	topExercisesLimit     = 10
)

// WorkoutStatusSummary aggregates the logged entries of one workout.
type WorkoutStatusSummary struct {
	WorkoutID               string                    `json:"workout_id"`
	Status                  domain.WorkoutStatus      `json:"status"`
	TotalExercisesCompleted int                       `json:"total_exercises_completed"`
	TotalCaloriesBurned     float64                   `json:"total_calories_burned"`
	TotalDurationMinutes    float64                   `json:"total_duration_minutes"`
	Exercises               []domain.ExerciseLogEntry `json:"exercises"`
}

// HistoryPage is one page of a user's log history, newest first.
type HistoryPage struct {
	UserID       string                    `json:"user_id"`
	Page         int                       `json:"page"`
	PerPage      int                       `json:"per_page"`
	TotalRecords int                       `json:"total_records"`
	History      []domain.ExerciseLogEntry `json:"history"`
}

// CalorieSummary sums a user's calorie burn over a trailing window.
type CalorieSummary struct {
	UserID                string  `json:"user_id"`
	PeriodDays            int     `json:"period_days"`
	TotalCaloriesBurned   float64 `json:"total_calories_burned"`
	TotalWorkouts         int     `json:"total_workouts"`
	TotalExercises        int     `json:"total_exercises"`
	AvgCaloriesPerWorkout float64 `json:"avg_calories_per_workout"`
}

// ExerciseCount is one row of the top-exercise ranking.
type ExerciseCount struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// WorkoutAnalytics is the richer per-user aggregate view.
type WorkoutAnalytics struct {
	UserID               string          `json:"user_id"`
	PeriodDays           int             `json:"period_days"`
	CalorieSummary       CalorieSummary  `json:"calorie_summary"`
	WorkoutFrequency     float64         `json:"workout_frequency"`
	TotalExercisesLogged int             `json:"total_exercises_logged"`
	AverageDifficulty    float64         `json:"average_difficulty"`
	TopExercises         []ExerciseCount `json:"top_exercises"`
}

// MLReadiness reports the readiness-gate verdict for a user.
type MLReadiness struct {
	UserID           string `json:"user_id"`
	WindowDays       int    `json:"window_days"`
	MinSessions      int    `json:"min_sessions"`
	SessionsInWindow int    `json:"sessions_in_window"`
	Ready            bool   `json:"ready_for_training"`
}

// SessionService is the session logger boundary: per-exercise completion
// logging plus the aggregates derived from it. Unlike workout generation,
// logging failures surface to the caller — a dropped log is data loss.
type SessionService interface {
	LogExercise(ctx context.Context, entry domain.ExerciseLogEntry) (string, error)
	WorkoutStatus(ctx context.Context, workoutID string) (*WorkoutStatusSummary, error)
	CompleteWorkout(ctx context.Context, workoutID string) error
	History(ctx context.Context, userID string, page, perPage int) (*HistoryPage, error)
	CalorieSummary(ctx context.Context, userID string, days int) (*CalorieSummary, error)
	Analytics(ctx context.Context, userID string, days int) (*WorkoutAnalytics, error)
	MLReadiness(ctx context.Context, userID string) (*MLReadiness, error)
	MLConfig(ctx context.Context) (*domain.MLConfig, error)
	UpdateMLConfig(ctx context.Context, windowDays, minSessions *int) (*domain.MLConfig, error)
}

type sessionService struct {
	logRepo repository.WorkoutLogRepository
	mlRepo  repository.MLConfigRepository
	now     func() time.Time
	log     *logrus.Entry
}

// NewSessionService creates a SessionService over the log and config
// repositories.
func NewSessionService(logRepo repository.WorkoutLogRepository, mlRepo repository.MLConfigRepository, logger *logrus.Logger) SessionService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &sessionService{
		logRepo: logRepo,
		mlRepo:  mlRepo,
		now:     time.Now,
		log:     logger.WithField("component", "session"),
	}
}

// LogExercise validates and appends one completion entry.
func (s *sessionService) LogExercise(ctx context.Context, entry domain.ExerciseLogEntry) (string, error) {
	if err := validateLogEntry(entry); err != nil {
		return "", err
	}
	if entry.WorkoutStatus == "" {
		entry.WorkoutStatus = domain.StatusInProgress
	}
	entry.CompletedAt = s.now().UTC()

	logID, err := s.logRepo.Append(ctx, &entry)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"user_id":    entry.UserID,
			"workout_id": entry.WorkoutID,
		}).Error("failed to append exercise log")
		return "", fmt.Errorf("%w: %v", ErrLogStoreFailed, err)
	}

	s.log.WithFields(logrus.Fields{
		"log_id":   logID,
		"exercise": entry.ExerciseTitle,
		"sets":     fmt.Sprintf("%d/%d", entry.CompletedSets, entry.PlannedSets),
	}).Info("logged exercise")
	return logID, nil
}

func validateLogEntry(entry domain.ExerciseLogEntry) error {
	switch {
	case entry.UserID == "":
		return fmt.Errorf("%w: user id is required", ErrInvalidLogEntry)
	case entry.WorkoutID == "":
		return fmt.Errorf("%w: workout id is required", ErrInvalidLogEntry)
	case entry.ExerciseID == "":
		return fmt.Errorf("%w: exercise id is required", ErrInvalidLogEntry)
	case !entry.Phase.Valid():
		return fmt.Errorf("%w: unknown phase %q", ErrInvalidLogEntry, entry.Phase)
	case entry.PlannedSets < 1:
		return fmt.Errorf("%w: planned sets must be at least 1", ErrInvalidLogEntry)
	case entry.PlannedReps < 1:
		return fmt.Errorf("%w: planned reps must be at least 1", ErrInvalidLogEntry)
	case entry.CompletedSets < 0:
		return fmt.Errorf("%w: completed sets must not be negative", ErrInvalidLogEntry)
	case entry.CompletedSets > entry.PlannedSets+CompletedSetsBuffer:
		return fmt.Errorf("%w: completed sets %d exceeds planned %d plus buffer %d",
			ErrInvalidLogEntry, entry.CompletedSets, entry.PlannedSets, CompletedSetsBuffer)
	case entry.DifficultyRating < 1 || entry.DifficultyRating > 10:
		return fmt.Errorf("%w: difficulty rating must be within 1-10", ErrInvalidLogEntry)
	case entry.WeightUsedKg < 0:
		return fmt.Errorf("%w: weight must not be negative", ErrInvalidLogEntry)
	case entry.DurationMinutes < 0 || entry.CaloriesBurned < 0:
		return fmt.Errorf("%w: duration and calories must not be negative", ErrInvalidLogEntry)
	}
	return nil
}

// WorkoutStatus aggregates logged entries into a progress summary. A workout
// with no logs reports not_started rather than an error.
func (s *sessionService) WorkoutStatus(ctx context.Context, workoutID string) (*WorkoutStatusSummary, error) {
	entries, err := s.logRepo.GetByWorkoutID(ctx, workoutID)
	if err != nil {
		return nil, err
	}

	summary := &WorkoutStatusSummary{
		WorkoutID: workoutID,
		Status:    domain.StatusNotStarted,
		Exercises: entries,
	}
	for _, e := range entries {
		summary.TotalCaloriesBurned += e.CaloriesBurned
		summary.TotalDurationMinutes += e.DurationMinutes
	}
	summary.TotalExercisesCompleted = len(entries)
	if len(entries) > 0 {
		summary.Status = entries[0].WorkoutStatus
	}
	return summary, nil
}

// CompleteWorkout marks every entry of the workout completed.
func (s *sessionService) CompleteWorkout(ctx context.Context, workoutID string) error {
	err := s.logRepo.CompleteWorkout(ctx, workoutID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutNotFound
	}
	return err
}

// History returns one page of the user's log entries.
func (s *sessionService) History(ctx context.Context, userID string, page, perPage int) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultHistoryPerPage
	}
	if perPage > maxHistoryPerPage {
		perPage = maxHistoryPerPage
	}

	skip := int64(page-1) * int64(perPage)
	entries, err := s.logRepo.GetByUserID(ctx, userID, int64(perPage), skip)
	if err != nil {
		return nil, err
	}
	return &HistoryPage{
		UserID:       userID,
		Page:         page,
		PerPage:      perPage,
		TotalRecords: len(entries),
		History:      entries,
	}, nil
}

// CalorieSummary totals calories over the trailing window.
func (s *sessionService) CalorieSummary(ctx context.Context, userID string, days int) (*CalorieSummary, error) {
	if days < 1 {
		days = defaultSummaryDays
	}
	entries, err := s.logRepo.GetByUserSince(ctx, userID, s.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}
	summary := summarizeCalories(userID, days, entries)
	return &summary, nil
}

func summarizeCalories(userID string, days int, entries []domain.ExerciseLogEntry) CalorieSummary {
	workouts := map[string]bool{}
	summary := CalorieSummary{UserID: userID, PeriodDays: days}
	for _, e := range entries {
		summary.TotalCaloriesBurned += e.CaloriesBurned
		workouts[e.WorkoutID] = true
	}
	summary.TotalWorkouts = len(workouts)
	summary.TotalExercises = len(entries)
	if summary.TotalWorkouts > 0 {
		summary.AvgCaloriesPerWorkout = summary.TotalCaloriesBurned / float64(summary.TotalWorkouts)
	}
	return summary
}

// Analytics derives frequency, difficulty and top-exercise stats from the
// trailing window.
func (s *sessionService) Analytics(ctx context.Context, userID string, days int) (*WorkoutAnalytics, error) {
	if days < 1 {
		days = defaultSummaryDays
	}
	entries, err := s.logRepo.GetByUserSince(ctx, userID, s.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}

	analytics := &WorkoutAnalytics{
		UserID:               userID,
		PeriodDays:           days,
		CalorieSummary:       summarizeCalories(userID, days, entries),
		TotalExercisesLogged: len(entries),
	}
	analytics.WorkoutFrequency = float64(analytics.CalorieSummary.TotalWorkouts) / float64(days)

	var difficultySum int
	var difficultyCount int
	counts := map[string]int{}
	for _, e := range entries {
		if e.DifficultyRating > 0 {
			difficultySum += e.DifficultyRating
			difficultyCount++
		}
		title := e.ExerciseTitle
		if title == "" {
			title = e.ExerciseID
		}
		counts[title]++
	}
	if difficultyCount > 0 {
		analytics.AverageDifficulty = float64(difficultySum) / float64(difficultyCount)
	}

	analytics.TopExercises = topExercises(counts, topExercisesLimit)
	return analytics, nil
}

func topExercises(counts map[string]int, limit int) []ExerciseCount {
	ranked := make([]ExerciseCount, 0, len(counts))
	for title, count := range counts {
		ranked = append(ranked, ExerciseCount{Title: title, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Title < ranked[j].Title
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// MLReadiness evaluates the training readiness gate for a user using the
// stored thresholds.
func (s *sessionService) MLReadiness(ctx context.Context, userID string) (*MLReadiness, error) {
	cfg, err := s.mlRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	gate := ml.Gate{WindowDays: cfg.TrainingWindowDays, MinSessions: cfg.MinSessionsForTraining}

	now := s.now()
	entries, err := s.logRepo.GetByUserSince(ctx, userID, gate.WindowStart(now))
	if err != nil {
		return nil, err
	}

	stamps := make([]ml.SessionStamp, 0, len(entries))
	for _, e := range entries {
		stamps = append(stamps, ml.SessionStamp{WorkoutID: e.WorkoutID, CompletedAt: e.CompletedAt})
	}
	sessions := gate.CountSessions(now, stamps)

	return &MLReadiness{
		UserID:           userID,
		WindowDays:       gate.WindowDays,
		MinSessions:      gate.MinSessions,
		SessionsInWindow: sessions,
		Ready:            gate.Ready(sessions),
	}, nil
}

// MLConfig returns the stored readiness-gate thresholds.
func (s *sessionService) MLConfig(ctx context.Context) (*domain.MLConfig, error) {
	return s.mlRepo.Get(ctx)
}

// UpdateMLConfig patches the readiness-gate thresholds. Nil pointers leave
// fields unchanged; provided values must be at least 1.
func (s *sessionService) UpdateMLConfig(ctx context.Context, windowDays, minSessions *int) (*domain.MLConfig, error) {
	if windowDays != nil && *windowDays < 1 {
		return nil, fmt.Errorf("%w: training window must be at least 1 day", ErrInvalidMLConfig)
	}
	if minSessions != nil && *minSessions < 1 {
		return nil, fmt.Errorf("%w: minimum sessions must be at least 1", ErrInvalidMLConfig)
	}
	cfg, err := s.mlRepo.Update(ctx, windowDays, minSessions)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"training_window_days":      cfg.TrainingWindowDays,
		"min_sessions_for_training": cfg.MinSessionsForTraining,
	}).Info("ml training config updated")
	return cfg, nil
}
