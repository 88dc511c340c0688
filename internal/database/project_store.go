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

// ProjectStore persists projects in the projects collection.
type ProjectStore struct {
	col *mongo.Collection
}

// GetByID returns the project with the given id.
func (s *ProjectStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var p models.Project
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, translateError(err, "failed to load project by id")
	}
	return &p, nil
}

// List returns all projects sorted by name.
func (s *ProjectStore) List(ctx context.Context) ([]models.Project, error) {
	return s.find(ctx, bson.M{})
}

// visibleFilter is the membership filter for a non-privileged user:
// manager = user OR associates contains user OR viewers contains user.
func visibleFilter(userID primitive.ObjectID) bson.M {
	return bson.M{
		"$or": bson.A{
			bson.M{"manager": userID},
			bson.M{"associates": bson.M{"$elemMatch": bson.M{"$eq": userID}}},
			bson.M{"viewers": bson.M{"$elemMatch": bson.M{"$eq": userID}}},
		},
	}
}

// ListVisible returns the projects the given user is a member of.
func (s *ProjectStore) ListVisible(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	return s.find(ctx, visibleFilter(userID))
}

// ListVisibleIDs returns the ids of the projects the given user is a member
// of. Used to scope feedback and reporting queries.
func (s *ProjectStore) ListVisibleIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	projects, err := s.ListVisible(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (s *ProjectStore) find(ctx context.Context, filter bson.M) ([]models.Project, error) {
	cursor, err := s.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, translateError(err, "failed to list projects")
	}
	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, translateError(err, "failed to decode projects")
	}
	return projects, nil
}

// InsertMany stores a batch of new projects and returns them with their ids
// filled in.
func (s *ProjectStore) InsertMany(ctx context.Context, projects []models.Project) ([]models.Project, error) {
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(projects))
	for i := range projects {
		if projects[i].ID.IsZero() {
			projects[i].ID = primitive.NewObjectID()
		}
		projects[i].CreatedAt = now
		docs = append(docs, projects[i])
	}
	if _, err := s.col.InsertMany(ctx, docs); err != nil {
		return nil, translateError(err, "failed to insert projects")
	}
	return projects, nil
}

// Update replaces the stored project document.
func (s *ProjectStore) Update(ctx context.Context, p *models.Project) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return translateError(err, "failed to update project")
	}
	if res.MatchedCount == 0 {
		return contextutils.ErrRecordNotFound
	}
	return nil
}
