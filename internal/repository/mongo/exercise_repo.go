package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fitgen/fitness-backend/internal/domain"
	"fitgen/fitness-backend/internal/repository"
)

const exerciseCollectionName = "exercises"

const defaultFindLimit = 100

// mongoExerciseRepository implements repository.ExerciseRepository over the
// dataset collection.
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates the exercise catalog repository backed
// by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Find returns active exercises matching the filter. Zero-valued filter
// fields are not constrained.
func (r *mongoExerciseRepository) Find(ctx context.Context, filter domain.ExerciseFilter, limit int64) ([]domain.Exercise, error) {
	query := bson.M{"is_active": true}
	if filter.BodyPart != "" {
		query["body_part"] = filter.BodyPart
	}
	if filter.Equipment != "" {
		query["equipment"] = filter.Equipment
	}
	if filter.Level != "" {
		query["level"] = filter.Level
	}
	if filter.Category != "" {
		query["type"] = filter.Category
	}

	if limit <= 0 {
		limit = defaultFindLimit
	}
	findOptions := options.Find().SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// GetByExerciseID retrieves a single exercise by its stable dataset id.
func (r *mongoExerciseRepository) GetByExerciseID(ctx context.Context, exerciseID string) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, bson.M{"exercise_id": exerciseID}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// BulkUpsert loads dataset rows keyed by exercise_id. Existing documents are
// replaced (preserving their usage counters via $setOnInsert semantics is not
// needed: loads happen before any generation traffic).
func (r *mongoExerciseRepository) BulkUpsert(ctx context.Context, exercises []domain.Exercise) (int64, int64, error) {
	if len(exercises) == 0 {
		return 0, 0, nil
	}

	now := time.Now().UTC()
	models := make([]mongo.WriteModel, 0, len(exercises))
	for i := range exercises {
		ex := exercises[i]
		ex.ID = primitive.NilObjectID
		ex.UpdatedAt = now
		if ex.CreatedAt.IsZero() {
			ex.CreatedAt = now
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"exercise_id": ex.ExerciseID}).
			SetReplacement(ex).
			SetUpsert(true))
	}

	result, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, 0, err
	}
	return result.UpsertedCount, result.ModifiedCount, nil
}

// UpdateMedia sets the media/active fields an admin is allowed to change.
// Nil pointers leave the corresponding field untouched.
func (r *mongoExerciseRepository) UpdateMedia(ctx context.Context, exerciseID string, videoURL *string, videoDurationSeconds *int, isActive *bool) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if videoURL != nil {
		set["video_url"] = *videoURL
	}
	if videoDurationSeconds != nil {
		set["video_duration_seconds"] = *videoDurationSeconds
	}
	if isActive != nil {
		set["is_active"] = *isActive
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"exercise_id": exerciseID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// MarkUsed bumps the usage counter and last-used timestamp on the given
// exercises, called by the generation path after a workout is assembled.
func (r *mongoExerciseRepository) MarkUsed(ctx context.Context, exerciseIDs []string, usedAt time.Time) error {
	if len(exerciseIDs) == 0 {
		return nil
	}
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"exercise_id": bson.M{"$in": exerciseIDs}},
		bson.M{
			"$inc": bson.M{"usage_count": 1},
			"$set": bson.M{"last_used_at": usedAt.UTC()},
		},
	)
	return err
}

// Count returns the number of catalog documents, used by the health check.
func (r *mongoExerciseRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.EstimatedDocumentCount(ctx)
}

// EnsureExerciseIndexes creates the indexes backing catalog filter queries.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "exercise_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "body_part", Value: 1}}},
		{Keys: bson.D{{Key: "equipment", Value: 1}}},
		{Keys: bson.D{{Key: "level", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}}},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
