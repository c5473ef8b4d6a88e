// Package mongo provides the MongoDB implementation of the identity repository.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/deskroute/deskroute/internal/domain"
	"github.com/deskroute/deskroute/internal/identity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const usersCollection = "users"

// Repository implements identity.Repository backed by a MongoDB collection.
type Repository struct {
	users *mongo.Collection
}

// NewRepository creates a repository over the users collection of db.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{users: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique index on email. CreateOne is idempotent
// when the index already exists with the same options.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create unique email index: %w", err)
	}
	return nil
}

// CreateUser inserts the user record. A duplicate-key rejection from the
// unique email index maps to identity.ErrEmailExists, the same error the
// pre-insert existence check produces.
func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := r.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return identity.ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByEmail looks up a user record by normalized email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, identity.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// EmailExists reports whether a record exists for the normalized email.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := r.users.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users by email: %w", err)
	}
	return count > 0, nil
}
