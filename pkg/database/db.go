// Package database manages the MongoDB connection.
//
// Call Connect once at startup (internal/server or the CLI), then grab
// collections with Collection:
//
//	users := database.Collection("users")
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/forkful/forkful/config"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

// Connect opens the MongoDB connection and configures the pool.
// Returns an error instead of calling log.Fatal so the caller can
// shut down gracefully.
func Connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(config.MongoURI()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(2 * time.Minute)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("database: connect: %w", err)
	}

	// Verify connection is live.
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("database: ping: %w", err)
	}

	Client = client
	DB = client.Database(config.MongoDatabase())
	return nil
}

// Disconnect closes the connection. Safe to call when Connect failed.
func Disconnect(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}

// Collection returns a handle to the named collection on the default
// database. Panics if Connect has not been called.
func Collection(name string) *mongo.Collection {
	if DB == nil {
		panic("database: Connect has not been called")
	}
	return DB.Collection(name)
}
