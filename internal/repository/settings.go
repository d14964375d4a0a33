package repository

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/catering-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SettingsDocument is one version of a settings kind. Payload holds the
// kind-specific body (packages, hours or pricing).
type SettingsDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind      model.SettingsKind `bson:"kind" json:"kind"`
	Payload   bson.Raw           `bson:"payload" json:"-"`
	Active    bool               `bson:"active" json:"active"`
	Version   int                `bson:"version" json:"version"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
	CreatedBy string             `bson:"created_by,omitempty" json:"created_by,omitempty"`
}

// Decode unmarshals the payload into dst.
func (d *SettingsDocument) Decode(dst any) error {
	if len(d.Payload) == 0 {
		return errors.New("settings document has no payload")
	}
	return bson.Unmarshal(d.Payload, dst)
}

// SettingsRepositoryInterface defines versioned settings storage.
type SettingsRepositoryInterface interface {
	GetActive(ctx context.Context, kind model.SettingsKind) (*SettingsDocument, error)
	Create(ctx context.Context, kind model.SettingsKind, payload any, createdBy string) (*SettingsDocument, error)
	List(ctx context.Context, kind model.SettingsKind, limit int) ([]SettingsDocument, error)
}

// SettingsRepository stores settings versions in MongoDB.
type SettingsRepository struct {
	collection *mongo.Collection
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(db *MongoDB) *SettingsRepository {
	return &SettingsRepository{collection: db.Settings}
}

// GetActive returns the active version of kind, or nil when none exists.
func (r *SettingsRepository) GetActive(ctx context.Context, kind model.SettingsKind) (*SettingsDocument, error) {
	var doc SettingsDocument
	err := r.collection.FindOne(ctx, bson.M{"kind": kind, "active": true}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Create stores payload as the new active version of kind and deactivates
// the previous one.
func (r *SettingsRepository) Create(ctx context.Context, kind model.SettingsKind, payload any, createdBy string) (*SettingsDocument, error) {
	raw, err := bson.Marshal(payload)
	if err != nil {
		return nil, err
	}

	version := 1
	var latest SettingsDocument
	err = r.collection.FindOne(ctx, bson.M{"kind": kind},
		options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}}),
	).Decode(&latest)
	switch {
	case err == nil:
		version = latest.Version + 1
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, err
	}

	now := time.Now()
	_, err = r.collection.UpdateMany(
		ctx,
		bson.M{"kind": kind, "active": true},
		bson.M{"$set": bson.M{"active": false, "updated_at": now}},
	)
	if err != nil {
		return nil, err
	}

	doc := SettingsDocument{
		ID:        primitive.NewObjectID(),
		Kind:      kind,
		Payload:   raw,
		Active:    true,
		Version:   version,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: createdBy,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// List returns the versions of kind, newest first.
func (r *SettingsRepository) List(ctx context.Context, kind model.SettingsKind, limit int) ([]SettingsDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "version", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"kind": kind}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []SettingsDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
