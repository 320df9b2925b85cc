package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fitgen/fitness-backend/internal/domain"
	"fitgen/fitness-backend/internal/repository"
)

const workoutLogCollectionName = "workout_logs"

// mongoWorkoutLogRepository implements repository.WorkoutLogRepository over
// the append-only workout history collection.
type mongoWorkoutLogRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutLogRepository creates the workout log repository backed by
// MongoDB.
func NewMongoWorkoutLogRepository(db *mongo.Database) repository.WorkoutLogRepository {
	return &mongoWorkoutLogRepository{
		collection: db.Collection(workoutLogCollectionName),
	}
}

// Append inserts a log entry, assigning a log id and completion timestamp if
// missing, and returns the log id.
func (r *mongoWorkoutLogRepository) Append(ctx context.Context, entry *domain.ExerciseLogEntry) (string, error) {
	if entry.LogID == "" {
		entry.LogID = "log_" + uuid.NewString()
	}
	if entry.CompletedAt.IsZero() {
		entry.CompletedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return "", err
	}
	return entry.LogID, nil
}

// GetByWorkoutID returns all entries for one workout, oldest first.
func (r *mongoWorkoutLogRepository) GetByWorkoutID(ctx context.Context, workoutID string) ([]domain.ExerciseLogEntry, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "completed_at", Value: 1}})
	return r.find(ctx, bson.M{"workout_id": workoutID}, findOptions)
}

// GetByUserID returns a page of the user's history, newest first.
func (r *mongoWorkoutLogRepository) GetByUserID(ctx context.Context, userID string, limit, skip int64) ([]domain.ExerciseLogEntry, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "completed_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	return r.find(ctx, bson.M{"user_id": userID}, findOptions)
}

// GetByUserSince returns the user's entries completed at or after the cutoff.
func (r *mongoWorkoutLogRepository) GetByUserSince(ctx context.Context, userID string, since time.Time) ([]domain.ExerciseLogEntry, error) {
	filter := bson.M{
		"user_id":      userID,
		"completed_at": bson.M{"$gte": since.UTC()},
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "completed_at", Value: -1}}))
}

// CompleteWorkout flips workout_status to completed on every entry of the
// workout. The one mutation allowed on otherwise append-only documents.
func (r *mongoWorkoutLogRepository) CompleteWorkout(ctx context.Context, workoutID string) error {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"workout_id": workoutID},
		bson.M{"$set": bson.M{"workout_status": domain.StatusCompleted}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// LastUsed aggregates the most recent completed_at per exercise id for a
// user, restricted to the given ids. Feeds the generator's recency scoring.
func (r *mongoWorkoutLogRepository) LastUsed(ctx context.Context, userID string, exerciseIDs []string) (map[string]time.Time, error) {
	if len(exerciseIDs) == 0 {
		return map[string]time.Time{}, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user_id":     userID,
			"exercise_id": bson.M{"$in": exerciseIDs},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":       "$exercise_id",
			"last_used": bson.M{"$max": "$completed_at"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ExerciseID string    `bson:"_id"`
		LastUsed   time.Time `bson:"last_used"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make(map[string]time.Time, len(rows))
	for _, row := range rows {
		out[row.ExerciseID] = row.LastUsed
	}
	return out, nil
}

func (r *mongoWorkoutLogRepository) find(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]domain.ExerciseLogEntry, error) {
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.ExerciseLogEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// EnsureWorkoutLogIndexes creates the indexes backing history and status
// queries.
func EnsureWorkoutLogIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "completed_at", Value: -1}}},
		{Keys: bson.D{{Key: "workout_id", Value: 1}}},
		{Keys: bson.D{{Key: "exercise_id", Value: 1}}},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
