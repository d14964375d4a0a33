// Package repository provides MongoDB persistence for menu items, settings,
// orders, admin accounts, tokens and logs.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig tunes the client connection pool. Zero fields keep the
// driver defaults except where DefaultMongoConfig says otherwise.
type MongoConfig struct {
	MaxPoolSize            uint64
	MinPoolSize            uint64
	MaxConnIdleTime        time.Duration
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration
	// Compressors are offered to the server in preference order.
	Compressors []string
}

// DefaultMongoConfig is sized for a single storefront instance.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		MaxPoolSize:            50,
		MinPoolSize:            5,
		MaxConnIdleTime:        10 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
		SocketTimeout:          30 * time.Second,
		Compressors:            []string{"zstd", "snappy", "zlib"},
	}
}

// MongoDB provides MongoDB client and database access.
type MongoDB struct {
	Client    *mongo.Client
	Database  *mongo.Database
	MenuItems *mongo.Collection
	Settings  *mongo.Collection
	Orders    *mongo.Collection
	Logs      *mongo.Collection
	Users     *mongo.Collection
	Tokens    *mongo.Collection
}

// NewMongoDB connects with DefaultMongoConfig.
func NewMongoDB(uri, databaseName string) (*MongoDB, error) {
	return NewMongoDBWithConfig(uri, databaseName, DefaultMongoConfig())
}

// NewMongoDBWithConfig connects, verifies the deployment answers and ensures
// the collection indexes exist.
func NewMongoDBWithConfig(uri, databaseName string, cfg MongoConfig) (*MongoDB, error) {
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = DefaultMongoConfig().ConnectTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetConnectTimeout(connectTimeout).
		SetRetryWrites(true).
		SetRetryReads(true)
	if cfg.ServerSelectionTimeout > 0 {
		clientOptions.SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
	}
	if cfg.SocketTimeout > 0 {
		clientOptions.SetSocketTimeout(cfg.SocketTimeout)
	}
	if len(cfg.Compressors) > 0 {
		clientOptions.SetCompressors(cfg.Compressors)
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(databaseName)
	mongoDB := &MongoDB{
		Client:    client,
		Database:  db,
		MenuItems: db.Collection("menu_items"),
		Settings:  db.Collection("settings"),
		Orders:    db.Collection("orders"),
		Logs:      db.Collection("logs"),
		Users:     db.Collection("users"),
		Tokens:    db.Collection("tokens"),
	}

	if err := mongoDB.createIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create indexes: %w", err)
	}

	return mongoDB, nil
}

// createIndexes builds the indexes each collection relies on. Settings, menu
// and token indexes carry uniqueness or expiry rules, so failing to build
// them is fatal; the rest only speed up admin queries.
func (m *MongoDB) createIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	sparse := options.Index().SetSparse(true)

	required := []struct {
		coll    *mongo.Collection
		indexes []mongo.IndexModel
	}{
		{m.Settings, []mongo.IndexModel{
			{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "active", Value: 1}}},
			{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "version", Value: -1}}, Options: unique},
		}},
		{m.MenuItems, []mongo.IndexModel{
			{Keys: bson.D{{Key: "active", Value: 1}, {Key: "course", Value: 1}}},
		}},
		{m.Users, []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		}},
		{m.Tokens, []mongo.IndexModel{
			{Keys: bson.D{{Key: "hash", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "kind", Value: 1}}},
			{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		}},
	}
	for _, r := range required {
		if _, err := r.coll.Indexes().CreateMany(ctx, r.indexes); err != nil {
			return fmt.Errorf("%s: %w", r.coll.Name(), err)
		}
	}

	// Logs TTL is managed by SetLogsTTL.
	_, _ = m.Orders.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "placed_at", Value: -1}}},
		{Keys: bson.D{{Key: "scheduled_at", Value: 1}}},
		{Keys: bson.D{{Key: "payment_status", Value: 1}, {Key: "placed_at", Value: -1}}},
		{Keys: bson.D{{Key: "payment_session_id", Value: 1}}, Options: sparse},
	})
	_, _ = m.Logs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "request_id", Value: 1}}},
		{Keys: bson.D{{Key: "action_type", Value: 1}, {Key: "timestamp", Value: -1}}, Options: sparse},
		{Keys: bson.D{{Key: "session_id", Value: 1}}, Options: sparse},
	})
	return nil
}

// logsTTLIndex is the name MongoDB gives the timestamp index.
const logsTTLIndex = "timestamp_1"

// SetLogsTTL expires log entries ttlDays after their timestamp. The index is
// rebuilt so a changed retention takes effect.
func (m *MongoDB) SetLogsTTL(ctx context.Context, ttlDays int) error {
	if ttlDays <= 0 {
		return fmt.Errorf("logs ttl must be at least one day, got %d", ttlDays)
	}
	if _, err := m.Logs.Indexes().DropOne(ctx, logsTTLIndex); err != nil && !isIndexNotFound(err) {
		return fmt.Errorf("drop logs ttl index: %w", err)
	}

	ttlIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(ttlDays * 24 * 60 * 60)),
	}
	if _, err := m.Logs.Indexes().CreateOne(ctx, ttlIndex); err != nil {
		return fmt.Errorf("create logs ttl index: %w", err)
	}
	return nil
}

// isIndexNotFound reports the server's IndexNotFound and NamespaceNotFound
// errors, both of which mean there was nothing to drop.
func isIndexNotFound(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == 27 || cmdErr.Code == 26
	}
	return false
}

// Close closes the MongoDB connection.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// HealthCheck pings the primary.
func (m *MongoDB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return m.Client.Ping(ctx, nil)
}
