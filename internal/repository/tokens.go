package repository

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/catering-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TokenRepositoryInterface stores refresh token and revocation digests.
type TokenRepositoryInterface interface {
	Save(ctx context.Context, token *model.StaffToken) error
	// TakeRefresh removes and returns the unexpired refresh token with hash,
	// or nil when there is none. Two concurrent calls never both succeed.
	TakeRefresh(ctx context.Context, hash string) (*model.StaffToken, error)
	DropRefresh(ctx context.Context, userID primitive.ObjectID) error
	IsRevoked(ctx context.Context, hash string) (bool, error)
}

// TokenRepository keeps digests in the tokens collection; the TTL index on
// expires_at clears them out once they lapse.
type TokenRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewTokenRepository(db *MongoDB) *TokenRepository {
	return &TokenRepository{collection: db.Tokens, now: time.Now}
}

func (r *TokenRepository) Save(ctx context.Context, token *model.StaffToken) error {
	if token.ID.IsZero() {
		token.ID = primitive.NewObjectID()
	}
	token.CreatedAt = r.now()
	_, err := r.collection.InsertOne(ctx, token)
	return err
}

func (r *TokenRepository) TakeRefresh(ctx context.Context, hash string) (*model.StaffToken, error) {
	var token model.StaffToken
	err := r.collection.FindOneAndDelete(ctx, bson.M{
		"hash":       hash,
		"kind":       model.TokenRefresh,
		"expires_at": bson.M{"$gt": r.now()},
	}).Decode(&token)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *TokenRepository) DropRefresh(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID, "kind": model.TokenRefresh})
	return err
}

// IsRevoked ignores revocations that have already lapsed but not yet been
// swept by the TTL monitor.
func (r *TokenRepository) IsRevoked(ctx context.Context, hash string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{
		"hash":       hash,
		"kind":       model.TokenRevoked,
		"expires_at": bson.M{"$gt": r.now()},
	})
	return n > 0, err
}
