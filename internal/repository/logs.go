package repository

import (
	"context"
	"regexp"
	"time"

	"github.com/guttosm/catering-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LogsRepository provides methods for log operations at the repository level.
type LogsRepository struct {
	collection *mongo.Collection
}

// NewLogsRepository creates a new logs repository.
func NewLogsRepository(db *MongoDB) *LogsRepository {
	return &LogsRepository{
		collection: db.Logs,
	}
}

// stamp fills in the ID and timestamp the service left unset.
func stamp(entry *model.LogEntry, now time.Time) {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = now
	}
}

// Create inserts one entry.
func (r *LogsRepository) Create(ctx context.Context, entry *model.LogEntry) error {
	stamp(entry, time.Now())
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// CreateMany inserts entries in one unordered batch so one bad document does
// not hold back the rest.
func (r *LogsRepository) CreateMany(ctx context.Context, entries []*model.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]any, len(entries))
	for i, entry := range entries {
		stamp(entry, now)
		docs[i] = entry
	}
	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return err
}

// LogsRepositoryInterface persists request logs and the audit trail.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *model.LogEntry) error
	CreateMany(ctx context.Context, entries []*model.LogEntry) error
	Query(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error)
	Count(ctx context.Context, opts model.LogQueryOptions) (int64, error)
}

// logFilter translates query options into a MongoDB filter. Path matches
// case-insensitively as a substring.
func logFilter(o model.LogQueryOptions) bson.M {
	filter := bson.M{}
	if o.RequestID != "" {
		filter["request_id"] = o.RequestID
	}
	if o.SessionID != "" {
		filter["session_id"] = o.SessionID
	}
	if o.Level != "" {
		filter["level"] = o.Level
	}
	if o.Method != "" {
		filter["method"] = o.Method
	}
	if o.Path != "" {
		filter["path"] = bson.M{"$regex": regexp.QuoteMeta(o.Path), "$options": "i"}
	}
	if o.UserID != "" {
		filter["user_id"] = o.UserID
	}
	if o.UserEmail != "" {
		filter["user_email"] = o.UserEmail
	}
	switch {
	case o.ActionType != "":
		filter["action_type"] = string(o.ActionType)
	case o.AuditOnly:
		filter["action_type"] = bson.M{"$exists": true, "$ne": ""}
	}
	if o.StartTime != nil || o.EndTime != nil {
		window := bson.M{}
		if o.StartTime != nil {
			window["$gte"] = *o.StartTime
		}
		if o.EndTime != nil {
			window["$lte"] = *o.EndTime
		}
		filter["timestamp"] = window
	}
	return filter
}

// Query returns log entries matching opts, newest first.
func (r *LogsRepository) Query(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if opts.Limit > 0 {
		findOptions.SetLimit(int64(opts.Limit))
	}
	if opts.Skip > 0 {
		findOptions.SetSkip(int64(opts.Skip))
	}

	cursor, err := r.collection.Find(ctx, logFilter(opts), findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	entries := []model.LogEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Count returns the number of log entries matching opts.
func (r *LogsRepository) Count(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	return r.collection.CountDocuments(ctx, logFilter(opts))
}
