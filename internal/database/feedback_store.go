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

// FeedbackStore persists feedback snapshots in the feedbacks collection.
type FeedbackStore struct {
	col *mongo.Collection
}

// Insert stores a new feedback and fills in its id and created timestamp.
// A feedback is one atomic document write; there is no cross-document
// transaction with the denormalized rating rows.
func (s *FeedbackStore) Insert(ctx context.Context, f *models.Feedback) error {
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	f.CreatedAt = time.Now().UTC()
	if _, err := s.col.InsertOne(ctx, f); err != nil {
		return translateError(err, "failed to insert feedback")
	}
	return nil
}

// GetByID returns the feedback with the given id.
func (s *FeedbackStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Feedback, error) {
	var f models.Feedback
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		return nil, translateError(err, "failed to load feedback by id")
	}
	return &f, nil
}

// LatestByUserAndProject returns the user's most recent feedback for the
// project by creation time, skipping excludeID (the just-written feedback
// when looking for a diff base). Returns ErrRecordNotFound when there is
// no prior feedback.
func (s *FeedbackStore) LatestByUserAndProject(ctx context.Context, userID, projectID, excludeID primitive.ObjectID) (*models.Feedback, error) {
	filter := bson.M{
		"user_id":    userID,
		"project_id": projectID,
	}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var f models.Feedback
	if err := s.col.FindOne(ctx, filter, opts).Decode(&f); err != nil {
		return nil, translateError(err, "failed to load latest feedback for user and project")
	}
	return &f, nil
}

// LatestByProject returns the most recent feedback for the project.
func (s *FeedbackStore) LatestByProject(ctx context.Context, projectID primitive.ObjectID) (*models.Feedback, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var f models.Feedback
	if err := s.col.FindOne(ctx, bson.M{"project_id": projectID}, opts).Decode(&f); err != nil {
		return nil, translateError(err, "failed to load latest feedback for project")
	}
	return &f, nil
}

// List returns feedbacks matching the filter, newest first.
func (s *FeedbackStore) List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, error) {
	match := bson.M{}
	if filter.ProjectIDs != nil {
		match["project_id"] = bson.M{"$in": filter.ProjectIDs}
	}
	if filter.Event != "" {
		match["event"] = filter.Event
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.col.Find(ctx, match, opts)
	if err != nil {
		return nil, translateError(err, "failed to list feedbacks")
	}
	feedbacks := []models.Feedback{}
	if err := cursor.All(ctx, &feedbacks); err != nil {
		return nil, translateError(err, "failed to decode feedbacks")
	}
	return feedbacks, nil
}

// ReplaceSections swaps the sections snapshot of an existing feedback. This
// is the explicit edit path used for reviewer comments; everything else on a
// feedback is immutable once written.
func (s *FeedbackStore) ReplaceSections(ctx context.Context, id primitive.ObjectID, sections []models.FeedbackSection) error {
	update := bson.M{
		"$set": bson.M{
			"sections":   sections,
			"updated_at": time.Now().UTC(),
		},
	}
	res, err := s.col.UpdateByID(ctx, id, update)
	if err != nil {
		return translateError(err, "failed to replace feedback sections")
	}
	if res.MatchedCount == 0 {
		return contextutils.ErrRecordNotFound
	}
	return nil
}
