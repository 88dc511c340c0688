package database

import (
	"context"
	"time"

	"feedbackapp/internal/models"
	contextutils "feedbackapp/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SurveyStore persists surveys in the surveys collection.
type SurveyStore struct {
	col *mongo.Collection
}

// GetByID returns the survey with the given id.
func (s *SurveyStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Survey, error) {
	var sv models.Survey
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&sv); err != nil {
		return nil, translateError(err, "failed to load survey by id")
	}
	return &sv, nil
}

// List returns all surveys, newest first.
func (s *SurveyStore) List(ctx context.Context) ([]models.Survey, error) {
	cursor, err := s.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, translateError(err, "failed to list surveys")
	}
	surveys := []models.Survey{}
	if err := cursor.All(ctx, &surveys); err != nil {
		return nil, translateError(err, "failed to decode surveys")
	}
	return surveys, nil
}

// Insert stores a new survey and fills in its id and created timestamp.
func (s *SurveyStore) Insert(ctx context.Context, sv *models.Survey) error {
	if sv.ID.IsZero() {
		sv.ID = primitive.NewObjectID()
	}
	sv.CreatedAt = time.Now().UTC()
	if _, err := s.col.InsertOne(ctx, sv); err != nil {
		return translateError(err, "failed to insert survey")
	}
	return nil
}

// Update replaces the stored survey document.
func (s *SurveyStore) Update(ctx context.Context, sv *models.Survey) error {
	sv.UpdatedAt = time.Now().UTC()
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": sv.ID}, sv)
	if err != nil {
		return translateError(err, "failed to update survey")
	}
	if res.MatchedCount == 0 {
		return contextutils.ErrRecordNotFound
	}
	return nil
}
