package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fitgen/fitness-backend/internal/domain"
	"fitgen/fitness-backend/internal/repository"
)

const systemConfigCollectionName = "system_config"

const mlConfigType = "ml_training"

// mongoMLConfigRepository implements repository.MLConfigRepository over the
// system config collection.
type mongoMLConfigRepository struct {
	collection         *mongo.Collection
	defaultWindowDays  int
	defaultMinSessions int
}

// NewMongoMLConfigRepository creates the ML config repository backed by
// MongoDB. The defaults seed the config document on first access; values
// below 1 fall back to the built-in thresholds.
func NewMongoMLConfigRepository(db *mongo.Database, defaultWindowDays, defaultMinSessions int) repository.MLConfigRepository {
	if defaultWindowDays < 1 {
		defaultWindowDays = domain.DefaultTrainingWindowDays
	}
	if defaultMinSessions < 1 {
		defaultMinSessions = domain.DefaultMinSessionsForTraining
	}
	return &mongoMLConfigRepository{
		collection:         db.Collection(systemConfigCollectionName),
		defaultWindowDays:  defaultWindowDays,
		defaultMinSessions: defaultMinSessions,
	}
}

// Get returns the ML training config, creating the default document on first
// read.
func (r *mongoMLConfigRepository) Get(ctx context.Context) (*domain.MLConfig, error) {
	var cfg domain.MLConfig
	err := r.collection.FindOne(ctx, bson.M{"config_type": mlConfigType}).Decode(&cfg)
	if err == nil {
		return &cfg, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	now := time.Now().UTC()
	cfg = domain.MLConfig{
		ConfigType:             mlConfigType,
		TrainingWindowDays:     r.defaultWindowDays,
		MinSessionsForTraining: r.defaultMinSessions,
		CreatedAt:              now,
		LastUpdated:            now,
	}
	if _, err := r.collection.InsertOne(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Update patches the thresholds; nil pointers leave fields unchanged. The
// document is upserted so an update can precede the first read.
func (r *mongoMLConfigRepository) Update(ctx context.Context, windowDays, minSessions *int) (*domain.MLConfig, error) {
	now := time.Now().UTC()
	set := bson.M{"last_updated": now}
	setOnInsert := bson.M{
		"config_type": mlConfigType,
		"created_at":  now,
	}

	// A field being patched goes into $set; otherwise its default goes into
	// $setOnInsert so an upserted document is always complete.
	if windowDays != nil {
		set["training_window_days"] = *windowDays
	} else {
		setOnInsert["training_window_days"] = r.defaultWindowDays
	}
	if minSessions != nil {
		set["min_sessions_for_training"] = *minSessions
	} else {
		setOnInsert["min_sessions_for_training"] = r.defaultMinSessions
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var cfg domain.MLConfig
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"config_type": mlConfigType},
		bson.M{"$set": set, "$setOnInsert": setOnInsert},
		opts,
	).Decode(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// EnsureSystemConfigIndexes creates the config lookup index.
func EnsureSystemConfigIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "config_type", Value: 1}},
	})
	return err
}
