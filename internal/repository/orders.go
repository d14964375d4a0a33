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

// ErrStatusMismatch is returned when a conditional status update finds the
// order in a different state than expected.
var ErrStatusMismatch = errors.New("order payment status changed concurrently")

const defaultOrderListLimit = 200

// orderSortFields maps accepted sort keys to document fields.
var orderSortFields = map[string]string{
	"placed":    "placed_at",
	"scheduled": "scheduled_at",
	"total":     "totals.grand_total",
}

// OrderRepositoryInterface defines order storage.
type OrderRepositoryInterface interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error)
	List(ctx context.Context, filter model.OrderFilter) ([]*model.Order, error)
	UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, from, to model.PaymentStatus) (*model.Order, error)
	SetPaymentSession(ctx context.Context, id primitive.ObjectID, sessionID string) error
}

// OrderRepository stores submitted orders.
type OrderRepository struct {
	collection *mongo.Collection
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *MongoDB) *OrderRepository {
	return &OrderRepository{collection: db.Orders}
}

// Create inserts order, assigning its ID and timestamps.
func (r *OrderRepository) Create(ctx context.Context, order *model.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	now := time.Now()
	if order.PlacedAt.IsZero() {
		order.PlacedAt = now
	}
	order.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, order)
	return err
}

// FindByID returns the order, or nil when it does not exist.
func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	var order model.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns orders matching filter.
func (r *OrderRepository) List(ctx context.Context, filter model.OrderFilter) ([]*model.Order, error) {
	cursor, err := r.collection.Find(ctx, orderQuery(filter), orderFindOptions(filter))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	orders := []*model.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func orderQuery(f model.OrderFilter) bson.M {
	q := bson.M{}
	if f.Method != "" {
		q["method"] = f.Method
	}
	if f.PaymentMethod != "" {
		q["payment_method"] = f.PaymentMethod
	}
	if f.PaymentStatus != "" {
		q["payment_status"] = f.PaymentStatus
	}
	if !f.From.IsZero() || !f.To.IsZero() {
		window := bson.M{}
		if !f.From.IsZero() {
			window["$gte"] = f.From
		}
		if !f.To.IsZero() {
			window["$lt"] = f.To
		}
		q["scheduled_at"] = window
	}
	return q
}

func orderFindOptions(f model.OrderFilter) *options.FindOptions {
	field, ok := orderSortFields[f.SortBy]
	if !ok {
		field = "placed_at"
	}
	dir := -1
	if f.Ascending {
		dir = 1
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultOrderListLimit
	}
	return options.Find().
		SetSort(bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}).
		SetLimit(limit)
}

// UpdatePaymentStatus moves an order from one status to another. The write
// only applies while the stored status still equals from; otherwise
// ErrStatusMismatch is returned. A missing order yields nil, nil.
func (r *OrderRepository) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, from, to model.PaymentStatus) (*model.Order, error) {
	now := time.Now()
	set := bson.M{"payment_status": to, "updated_at": now}
	if to == model.PaymentPaid {
		set["paid_at"] = now
	}

	var order model.Order
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "payment_status": from},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	existing, findErr := r.FindByID(ctx, id)
	if findErr != nil {
		return nil, findErr
	}
	if existing == nil {
		return nil, nil
	}
	return nil, ErrStatusMismatch
}

// SetPaymentSession records the hosted payment session for an order.
func (r *OrderRepository) SetPaymentSession(ctx context.Context, id primitive.ObjectID, sessionID string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"payment_session_id": sessionID, "updated_at": time.Now()}},
	)
	return err
}
