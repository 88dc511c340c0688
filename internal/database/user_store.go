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

// UserStore persists users in the users collection.
type UserStore struct {
	col *mongo.Collection
}

// GetByID returns the user with the given id.
func (s *UserStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, translateError(err, "failed to load user by id")
	}
	return &u, nil
}

// GetByUsername returns the user with the given (normalized) username.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	filter := bson.M{"username": models.NormalizeUsername(username)}
	if err := s.col.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, translateError(err, "failed to load user by username")
	}
	return &u, nil
}

// List returns all users, soft-deleted ones included, sorted by username.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	cursor, err := s.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, translateError(err, "failed to list users")
	}
	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, translateError(err, "failed to decode users")
	}
	return users, nil
}

// Insert stores a new user and fills in its id and created timestamp.
func (s *UserStore) Insert(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.Username = models.NormalizeUsername(u.Username)
	u.CreatedAt = time.Now().UTC()
	if _, err := s.col.InsertOne(ctx, u); err != nil {
		return translateError(err, "failed to insert user")
	}
	return nil
}

// Update replaces the stored user document.
func (s *UserStore) Update(ctx context.Context, u *models.User) error {
	u.Username = models.NormalizeUsername(u.Username)
	u.UpdatedAt = time.Now().UTC()
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		return translateError(err, "failed to update user")
	}
	if res.MatchedCount == 0 {
		return contextutils.ErrRecordNotFound
	}
	return nil
}

// SetPassword replaces the password hash and clears all outstanding reset
// requests in one write.
func (s *UserStore) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	update := bson.M{
		"$set":   bson.M{"password": hash, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"request_reset": ""},
	}
	res, err := s.col.UpdateByID(ctx, id, update)
	if err != nil {
		return translateError(err, "failed to set password")
	}
	if res.MatchedCount == 0 {
		return contextutils.ErrRecordNotFound
	}
	return nil
}

// AddResetRequest appends an outstanding password-reset token to the user.
func (s *UserStore) AddResetRequest(ctx context.Context, id primitive.ObjectID, req models.ResetRequest) error {
	update := bson.M{
		"$push": bson.M{"request_reset": req},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := s.col.UpdateByID(ctx, id, update)
	if err != nil {
		return translateError(err, "failed to add reset request")
	}
	if res.MatchedCount == 0 {
		return contextutils.ErrRecordNotFound
	}
	return nil
}

// SoftDelete marks the user deleted. Users are never physically removed.
func (s *UserStore) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"is_deleted": true, "updated_at": time.Now().UTC()}}
	res, err := s.col.UpdateByID(ctx, id, update)
	if err != nil {
		return translateError(err, "failed to soft delete user")
	}
	if res.MatchedCount == 0 {
		return contextutils.ErrRecordNotFound
	}
	return nil
}
