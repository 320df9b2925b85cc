package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fitgen/fitness-backend/internal/dataset"
	"fitgen/fitness-backend/internal/domain"
	"fitgen/fitness-backend/internal/repository"
	"fitgen/fitness-backend/internal/storage"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrMediaUnavailable = errors.New("media storage is not configured")
)

// LoadReport summarizes a dataset bulk load.
type LoadReport struct {
	TotalRows int   `json:"total_rows"`
	Parsed    int   `json:"parsed"`
	Skipped   int   `json:"skipped"`
	Inserted  int64 `json:"inserted"`
	Updated   int64 `json:"updated"`
}

// MediaUpload carries a presigned upload grant for exercise media.
type MediaUpload struct {
	ExerciseID string `json:"exercise_id"`
	ObjectKey  string `json:"object_key"`
	UploadURL  string `json:"upload_url"`
}

// DatasetService manages the exercise catalog: bulk loads, browsing and
// media administration.
type DatasetService interface {
	LoadFromCSV(ctx context.Context, path string) (*LoadReport, error)
	ListExercises(ctx context.Context, filter domain.ExerciseFilter, limit int64) ([]domain.Exercise, error)
	GetExercise(ctx context.Context, exerciseID string) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, exerciseID string, videoURL *string, videoDurationSeconds *int, isActive *bool) (*domain.Exercise, error)
	MediaUploadURL(ctx context.Context, exerciseID, contentType string) (*MediaUpload, error)
	ExerciseCount(ctx context.Context) (int64, error)
}

type datasetService struct {
	exerciseRepo repository.ExerciseRepository
	media        storage.MediaStorage // may be nil when S3 is not configured
	log          *logrus.Entry
}

// NewDatasetService creates a DatasetService. media may be nil; media
// endpoints then report ErrMediaUnavailable.
func NewDatasetService(exerciseRepo repository.ExerciseRepository, media storage.MediaStorage, logger *logrus.Logger) DatasetService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &datasetService{
		exerciseRepo: exerciseRepo,
		media:        media,
		log:          logger.WithField("component", "dataset"),
	}
}

// LoadFromCSV parses the dataset file and upserts it into the catalog.
func (s *datasetService) LoadFromCSV(ctx context.Context, path string) (*LoadReport, error) {
	parsed, err := dataset.LoadFile(path)
	if err != nil {
		return nil, err
	}

	inserted, updated, err := s.exerciseRepo.BulkUpsert(ctx, parsed.Exercises)
	if err != nil {
		return nil, err
	}

	report := &LoadReport{
		TotalRows: parsed.Total,
		Parsed:    parsed.Parsed,
		Skipped:   parsed.Skipped,
		Inserted:  inserted,
		Updated:   updated,
	}
	s.log.WithFields(logrus.Fields{
		"path":     path,
		"parsed":   report.Parsed,
		"inserted": report.Inserted,
		"updated":  report.Updated,
	}).Info("dataset loaded")
	return report, nil
}

// ListExercises returns catalog entries matching the filter.
func (s *datasetService) ListExercises(ctx context.Context, filter domain.ExerciseFilter, limit int64) ([]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.Find(ctx, filter, limit)
	if err != nil {
		return nil, err
	}
	for i := range exercises {
		s.resolveMediaURL(ctx, &exercises[i])
	}
	return exercises, nil
}

// GetExercise returns one exercise by its stable id.
func (s *datasetService) GetExercise(ctx context.Context, exerciseID string) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByExerciseID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	s.resolveMediaURL(ctx, exercise)
	return exercise, nil
}

// UpdateExercise patches the admin-editable fields and returns the updated
// record. Deactivation is the only way to retire an exercise; documents are
// never deleted.
func (s *datasetService) UpdateExercise(ctx context.Context, exerciseID string, videoURL *string, videoDurationSeconds *int, isActive *bool) (*domain.Exercise, error) {
	err := s.exerciseRepo.UpdateMedia(ctx, exerciseID, videoURL, videoDurationSeconds, isActive)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return s.exerciseRepo.GetByExerciseID(ctx, exerciseID)
}

// MediaUploadURL issues a presigned PUT for a new media object and returns
// the object key the caller should store via UpdateExercise once the upload
// finishes.
func (s *datasetService) MediaUploadURL(ctx context.Context, exerciseID, contentType string) (*MediaUpload, error) {
	if s.media == nil {
		return nil, ErrMediaUnavailable
	}
	if _, err := s.GetExercise(ctx, exerciseID); err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("exercise-media/%s/%s", exerciseID, uuid.NewString())
	uploadURL, err := s.media.PresignUpload(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}
	return &MediaUpload{
		ExerciseID: exerciseID,
		ObjectKey:  objectKey,
		UploadURL:  uploadURL,
	}, nil
}

// ExerciseCount reports the catalog size, used by the health endpoint.
func (s *datasetService) ExerciseCount(ctx context.Context) (int64, error) {
	return s.exerciseRepo.Count(ctx)
}

// resolveMediaURL swaps a stored object key for a short-lived download URL.
// Absolute URLs (externally hosted media) pass through untouched, and a
// presign failure leaves the key in place rather than failing the read.
func (s *datasetService) resolveMediaURL(ctx context.Context, ex *domain.Exercise) {
	if s.media == nil || ex.VideoURL == "" || strings.Contains(ex.VideoURL, "://") {
		return
	}
	url, err := s.media.PresignDownload(ctx, ex.VideoURL, storage.DefaultPresignedURLExpiry)
	if err != nil {
		s.log.WithError(err).WithField("exercise_id", ex.ExerciseID).Warn("failed to presign media URL")
		return
	}
	ex.VideoURL = url
}
