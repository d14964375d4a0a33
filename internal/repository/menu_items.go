package repository

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/catering-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MenuRepositoryInterface defines menu catalog storage.
type MenuRepositoryInterface interface {
	List(ctx context.Context, activeOnly bool) ([]model.MenuItem, error)
	FindByID(ctx context.Context, id string) (*model.MenuItem, error)
	Upsert(ctx context.Context, item *model.MenuItem) error
	SetActive(ctx context.Context, id string, active bool) (bool, error)
	UpdatePrices(ctx context.Context, items []model.MenuItem) error
}

// MenuRepository stores menu items keyed by slug.
type MenuRepository struct {
	collection *mongo.Collection
}

// NewMenuRepository creates a new menu repository.
func NewMenuRepository(db *MongoDB) *MenuRepository {
	return &MenuRepository{collection: db.MenuItems}
}

// List returns menu items sorted by course then name.
func (r *MenuRepository) List(ctx context.Context, activeOnly bool) ([]model.MenuItem, error) {
	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "course", Value: 1}, {Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	items := []model.MenuItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID returns the item with id, or nil when it does not exist.
func (r *MenuRepository) FindByID(ctx context.Context, id string) (*model.MenuItem, error) {
	var item model.MenuItem
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Upsert replaces the item with the same id or inserts it.
func (r *MenuRepository) Upsert(ctx context.Context, item *model.MenuItem) error {
	item.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": item.ID}, item, options.Replace().SetUpsert(true))
	return err
}

// SetActive toggles availability. It reports false when no item matched.
func (r *MenuRepository) SetActive(ctx context.Context, id string, active bool) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"active": active, "updated_at": time.Now()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// UpdatePrices writes derived prices for every item in a single bulk call.
func (r *MenuRepository) UpdatePrices(ctx context.Context, items []model.MenuItem) error {
	if len(items) == 0 {
		return nil
	}
	now := time.Now()
	writes := make([]mongo.WriteModel, 0, len(items))
	for _, it := range items {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": it.ID}).
			SetUpdate(bson.M{"$set": bson.M{
				"sale_price":  it.SalePrice,
				"piece_price": it.PiecePrice,
				"tray_prices": it.TrayPrices,
				"updated_at":  now,
			}}))
	}
	_, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}
