package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitgen/fitness-backend/internal/domain"
	"fitgen/fitness-backend/internal/service"
)

// --- Fake services ---

type fakeWorkoutService struct {
	lastRequest domain.WorkoutRequest
	err         error
}

func (f *fakeWorkoutService) Generate(_ context.Context, req domain.WorkoutRequest) (*domain.GeneratedWorkout, error) {
	f.lastRequest = req
	if f.err != nil {
		return nil, f.err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &domain.GeneratedWorkout{
		WorkoutID:    "wk_test",
		UserID:       req.UserID,
		FitnessLevel: req.FitnessLevel,
	}, nil
}

type fakeSessionService struct {
	logErr   error
	lastLog  domain.ExerciseLogEntry
	mlConfig domain.MLConfig
}

func (f *fakeSessionService) LogExercise(_ context.Context, entry domain.ExerciseLogEntry) (string, error) {
	f.lastLog = entry
	if f.logErr != nil {
		return "", f.logErr
	}
	return "log_test", nil
}

func (f *fakeSessionService) WorkoutStatus(_ context.Context, workoutID string) (*service.WorkoutStatusSummary, error) {
	return &service.WorkoutStatusSummary{WorkoutID: workoutID, Status: domain.StatusNotStarted}, nil
}

func (f *fakeSessionService) CompleteWorkout(_ context.Context, workoutID string) error {
	if workoutID == "wk_missing" {
		return service.ErrWorkoutNotFound
	}
	return nil
}

func (f *fakeSessionService) History(_ context.Context, userID string, page, perPage int) (*service.HistoryPage, error) {
	return &service.HistoryPage{UserID: userID, Page: page, PerPage: perPage}, nil
}

func (f *fakeSessionService) CalorieSummary(_ context.Context, userID string, days int) (*service.CalorieSummary, error) {
	return &service.CalorieSummary{UserID: userID, PeriodDays: days}, nil
}

func (f *fakeSessionService) Analytics(_ context.Context, userID string, days int) (*service.WorkoutAnalytics, error) {
	return &service.WorkoutAnalytics{UserID: userID, PeriodDays: days}, nil
}

func (f *fakeSessionService) MLReadiness(_ context.Context, userID string) (*service.MLReadiness, error) {
	return &service.MLReadiness{UserID: userID}, nil
}

func (f *fakeSessionService) MLConfig(_ context.Context) (*domain.MLConfig, error) {
	cfg := f.mlConfig
	return &cfg, nil
}

func (f *fakeSessionService) UpdateMLConfig(_ context.Context, windowDays, minSessions *int) (*domain.MLConfig, error) {
	if windowDays != nil {
		if *windowDays < 1 {
			return nil, service.ErrInvalidMLConfig
		}
		f.mlConfig.TrainingWindowDays = *windowDays
	}
	if minSessions != nil {
		if *minSessions < 1 {
			return nil, service.ErrInvalidMLConfig
		}
		f.mlConfig.MinSessionsForTraining = *minSessions
	}
	cfg := f.mlConfig
	return &cfg, nil
}

type fakeDatasetService struct {
	exercises map[string]domain.Exercise
}

func (f *fakeDatasetService) LoadFromCSV(_ context.Context, path string) (*service.LoadReport, error) {
	return &service.LoadReport{Parsed: len(f.exercises)}, nil
}

func (f *fakeDatasetService) ListExercises(_ context.Context, _ domain.ExerciseFilter, _ int64) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, ex := range f.exercises {
		out = append(out, ex)
	}
	return out, nil
}

func (f *fakeDatasetService) GetExercise(_ context.Context, exerciseID string) (*domain.Exercise, error) {
	ex, ok := f.exercises[exerciseID]
	if !ok {
		return nil, service.ErrExerciseNotFound
	}
	return &ex, nil
}

func (f *fakeDatasetService) UpdateExercise(_ context.Context, exerciseID string, _ *string, _ *int, isActive *bool) (*domain.Exercise, error) {
	ex, ok := f.exercises[exerciseID]
	if !ok {
		return nil, service.ErrExerciseNotFound
	}
	if isActive != nil {
		ex.IsActive = *isActive
	}
	f.exercises[exerciseID] = ex
	return &ex, nil
}

func (f *fakeDatasetService) MediaUploadURL(_ context.Context, exerciseID, _ string) (*service.MediaUpload, error) {
	if _, ok := f.exercises[exerciseID]; !ok {
		return nil, service.ErrExerciseNotFound
	}
	return &service.MediaUpload{ExerciseID: exerciseID, UploadURL: "https://media.test/upload"}, nil
}

func (f *fakeDatasetService) ExerciseCount(_ context.Context) (int64, error) {
	return int64(len(f.exercises)), nil
}

// --- Test harness ---

func newTestRouter(t *testing.T) (*gin.Engine, *fakeWorkoutService, *fakeSessionService, *fakeDatasetService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	workoutSvc := &fakeWorkoutService{}
	sessionSvc := &fakeSessionService{mlConfig: domain.MLConfig{
		TrainingWindowDays:     domain.DefaultTrainingWindowDays,
		MinSessionsForTraining: domain.DefaultMinSessionsForTraining,
	}}
	datasetSvc := &fakeDatasetService{exercises: map[string]domain.Exercise{
		"ex_aaaa1111": {ExerciseID: "ex_aaaa1111", Title: "Bench Press", IsActive: true},
	}}

	router := gin.New()
	SetupRoutes(router, workoutSvc, sessionSvc, datasetSvc, "data/test.csv", nil)
	return router, workoutSvc, sessionSvc, datasetSvc
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// --- Tests ---

func TestGenerateWorkoutEndpoint(t *testing.T) {
	router, workoutSvc, _, _ := newTestRouter(t)

	body := `{"target_body_parts":["Chest"],"duration_minutes":45,"weight_kg":75,"fitness_level":"Intermediate"}`
	w := doRequest(router, http.MethodPost, "/api/v1/users/user-1/workouts/generate", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "user-1", workoutSvc.lastRequest.UserID)
	assert.True(t, workoutSvc.lastRequest.IncludeWarmup, "warmup defaults on")
	assert.True(t, workoutSvc.lastRequest.IncludeStretches, "stretches default on")

	var resp domain.GeneratedWorkout
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "wk_test", resp.WorkoutID)
}

func TestGenerateWorkoutRejectsInvalidInput(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	// Missing required fields fails binding.
	w := doRequest(router, http.MethodPost, "/api/v1/users/user-1/workouts/generate", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Bad duration passes binding but fails domain validation.
	body := `{"target_body_parts":["Chest"],"duration_minutes":999,"weight_kg":75,"fitness_level":"Intermediate"}`
	w = doRequest(router, http.MethodPost, "/api/v1/users/user-1/workouts/generate", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateWorkoutDisablesOptionalPhases(t *testing.T) {
	router, workoutSvc, _, _ := newTestRouter(t)

	body := `{"target_body_parts":["Back"],"duration_minutes":30,"weight_kg":80,"fitness_level":"Expert","include_warmup":false,"include_stretches":false}`
	w := doRequest(router, http.MethodPost, "/api/v1/users/user-1/workouts/generate", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, workoutSvc.lastRequest.IncludeWarmup)
	assert.False(t, workoutSvc.lastRequest.IncludeStretches)
}

func TestLogExerciseEndpoint(t *testing.T) {
	router, _, sessionSvc, _ := newTestRouter(t)

	body := `{"phase":"main_course","planned_sets":3,"completed_sets":3,"planned_reps":10,"difficulty_rating":7}`
	w := doRequest(router, http.MethodPost, "/api/v1/users/user-1/workouts/wk_abc/exercises/ex_aaaa1111/log", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	assert.Equal(t, "user-1", sessionSvc.lastLog.UserID)
	assert.Equal(t, "wk_abc", sessionSvc.lastLog.WorkoutID)
	assert.Equal(t, "ex_aaaa1111", sessionSvc.lastLog.ExerciseID)
	assert.Equal(t, domain.PhaseMainCourse, sessionSvc.lastLog.Phase)
}

func TestLogExerciseMapsValidationError(t *testing.T) {
	router, _, sessionSvc, _ := newTestRouter(t)
	sessionSvc.logErr = service.ErrInvalidLogEntry

	body := `{"phase":"main_course","planned_sets":3,"planned_reps":10,"difficulty_rating":7}`
	w := doRequest(router, http.MethodPost, "/api/v1/users/user-1/workouts/wk_abc/exercises/ex_aaaa1111/log", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompleteWorkoutNotFound(t *testing.T) {
	router, _, _, _ := newTestRouter(t)
	w := doRequest(router, http.MethodPost, "/api/v1/users/user-1/workouts/wk_missing/complete", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetExerciseNotFoundStatus(t *testing.T) {
	router, _, _, _ := newTestRouter(t)
	w := doRequest(router, http.MethodGet, "/api/v1/dataset/exercises/ex_nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListExercisesRejectsUnknownLevel(t *testing.T) {
	router, _, _, _ := newTestRouter(t)
	w := doRequest(router, http.MethodGet, "/api/v1/dataset/exercises?level=Superhuman", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMLConfigRoundTrip(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/admin/ml-config", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cfg domain.MLConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Equal(t, domain.DefaultTrainingWindowDays, cfg.TrainingWindowDays)

	w = doRequest(router, http.MethodPut, "/api/v1/admin/ml-config", `{"training_window_days":14}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Equal(t, 14, cfg.TrainingWindowDays)

	w = doRequest(router, http.MethodPut, "/api/v1/admin/ml-config", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _, _ := newTestRouter(t)
	w := doRequest(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"exercise_count":1`)
}
