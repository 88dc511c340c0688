// Package database manages the MongoDB connection and the per-collection
// stores the services read and write through.
package database

import (
	"context"

	"feedbackapp/internal/config"
	"feedbackapp/internal/observability"
	contextutils "feedbackapp/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	CollUsers     = "users"
	CollProjects  = "projects"
	CollSurveys   = "surveys"
	CollFeedbacks = "feedbacks"
	CollRatings   = "ratings"
)

// Store bundles the per-collection stores over one database handle.
type Store struct {
	Users     *UserStore
	Projects  *ProjectStore
	Surveys   *SurveyStore
	Feedbacks *FeedbackStore
	Ratings   *RatingStore
}

// NewStore creates the collection stores for db.
func NewStore(db *mongo.Database) *Store {
	return &Store{
		Users:     &UserStore{col: db.Collection(CollUsers)},
		Projects:  &ProjectStore{col: db.Collection(CollProjects)},
		Surveys:   &SurveyStore{col: db.Collection(CollSurveys)},
		Feedbacks: &FeedbackStore{col: db.Collection(CollFeedbacks)},
		Ratings:   &RatingStore{col: db.Collection(CollRatings)},
	}
}

// Connect establishes the MongoDB connection and verifies it with a ping.
func Connect(ctx context.Context, cfg *config.MongoConfig, logger *observability.Logger) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, contextutils.WrapError(err, "failed to connect to mongodb")
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, nil, contextutils.WrapError(err, "failed to ping mongodb")
	}

	logger.Info(ctx, "Connected to MongoDB", map[string]interface{}{
		"database": cfg.Database,
	})

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates the indexes the application queries rely on. Safe to
// call on every startup; creation is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		CollUsers: {
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		CollProjects: {
			{Keys: bson.D{{Key: "manager", Value: 1}}},
			{Keys: bson.D{{Key: "associates", Value: 1}}},
			{Keys: bson.D{{Key: "viewers", Value: 1}}},
		},
		CollFeedbacks: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "project_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		CollRatings: {
			{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "customer", Value: 1}}},
			{Keys: bson.D{{Key: "domain", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return contextutils.WrapErrorf(err, "failed to create indexes for %s", coll)
		}
	}
	return nil
}

// translateError maps driver errors onto the application error taxonomy.
func translateError(err error, context string) error {
	if err == nil {
		return nil
	}
	if err == mongo.ErrNoDocuments {
		return contextutils.ErrRecordNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return contextutils.WrapError(contextutils.ErrRecordExists, context)
	}
	return contextutils.WrapError(err, context)
}
