package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/guttosm/catering-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepositoryInterface stores staff accounts.
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *model.User) error
	// FindByEmail includes the password hash; FindByID never does.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

// UserRepository keeps staff accounts keyed by lower-cased email.
type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *MongoDB) *UserRepository {
	return &UserRepository{collection: db.Users}
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create rejects a second account with the same email through the unique
// index on email.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Email = normaliseEmail(user.Email)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, bson.M{"email": normaliseEmail(email)})
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return r.first(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"password": 0}))
}

// CountByRole counts active accounts holding role.
func (r *UserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"roles": role, "active": true})
}

// first returns nil without error when nothing matches.
func (r *UserRepository) first(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*model.User, error) {
	user := new(model.User)
	err := r.collection.FindOne(ctx, filter, opts...).Decode(user)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return user, nil
}
