package database

import (
	"context"
	"time"

	"feedbackapp/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RatingStore persists the denormalized per-question rating rows and runs
// the reporting aggregations over them.
type RatingStore struct {
	col *mongo.Collection
}

// InsertMany stores a batch of rating rows. Called after the feedback write;
// a failure here is a logged inconsistency, not a rollback of the feedback.
func (s *RatingStore) InsertMany(ctx context.Context, ratings []models.Rating) error {
	if len(ratings) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(ratings))
	for i := range ratings {
		if ratings[i].ID.IsZero() {
			ratings[i].ID = primitive.NewObjectID()
		}
		ratings[i].CreatedAt = now
		docs = append(docs, ratings[i])
	}
	if _, err := s.col.InsertMany(ctx, docs); err != nil {
		return translateError(err, "failed to insert rating rows")
	}
	return nil
}

// matchStage builds the $match document for a rating filter.
func matchStage(f models.RatingFilter) bson.M {
	match := bson.M{}
	if f.ProjectIDs != nil {
		match["project_id"] = bson.M{"$in": f.ProjectIDs}
	}
	if f.Customer != "" {
		match["customer"] = f.Customer
	}
	if f.Domain != "" {
		match["domain"] = f.Domain
	}
	if f.SectionTitle != "" {
		match["section_title"] = f.SectionTitle
	}
	return match
}

// DailyAverages groups matched ratings by UTC calendar day and averages the
// rating values. Days without matches produce no row.
func (s *RatingStore) DailyAverages(ctx context.Context, f models.RatingFilter) ([]models.DailyAverage, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: matchStage(f)}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":    bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$created_at"}},
			"rating": bson.M{"$avg": "$rating"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translateError(err, "failed to aggregate daily averages")
	}
	rows := []models.DailyAverage{}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, translateError(err, "failed to decode daily averages")
	}
	return rows, nil
}

// TierCounts groups matched ratings by rating value and counts occurrences.
func (s *RatingStore) TierCounts(ctx context.Context, f models.RatingFilter) ([]models.TierCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: matchStage(f)}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$rating",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translateError(err, "failed to aggregate tier counts")
	}
	rows := []models.TierCount{}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, translateError(err, "failed to decode tier counts")
	}
	return rows, nil
}
