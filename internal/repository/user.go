package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roster/roster/internal/model"
)

// ErrUnexpectedID is returned when the driver reports a non-ObjectID _id.
var ErrUnexpectedID = errors.New("unexpected inserted id type")

// ListUsers returns up to limit users, most recently created first.
// ObjectIDs grow with creation time, so sorting on _id descending gives
// newest-first without a timestamp field.
func (r *Repository) ListUsers(ctx context.Context, limit int64) ([]model.User, error) {
	coll, err := r.users(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetProjection(bson.D{{Key: "name", Value: 1}, {Key: "email", Value: 1}}).
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(limit)

	cursor, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list users: %w", ErrStorageUnavailable, err)
	}

	users := make([]model.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("%w: failed to decode users: %w", ErrStorageUnavailable, err)
	}

	return users, nil
}

// CreateUser inserts a new user and sets user.ID to the store-assigned id.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	coll, err := r.users(ctx)
	if err != nil {
		return err
	}

	res, err := coll.InsertOne(ctx, bson.D{
		{Key: "name", Value: user.Name},
		{Key: "email", Value: user.Email},
	})
	if err != nil {
		return fmt.Errorf("%w: failed to create user: %w", ErrStorageUnavailable, err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("%w: %w: %T", ErrStorageUnavailable, ErrUnexpectedID, res.InsertedID)
	}
	user.ID = id

	return nil
}
