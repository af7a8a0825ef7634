// Package migrations contains the MongoDB migration registry.
//
// MongoDB has no schemas, so migrations here declare indexes and other
// one-time collection setup. Each migration file uses init() to call
// Register(). Both the migrate command (cmd/forkful/cmd_db.go) and the
// server boot (internal/server) import this package, so every migration
// is registered before RunAll executes the pending ones.
//
// Applied migration names are recorded in the "migrations" collection so
// each one runs exactly once.
package migrations

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MigrationFunc performs a one-time setup step against db.
type MigrationFunc func(ctx context.Context, db *mongo.Database) error

type entry struct {
	name string
	fn   MigrationFunc
}

var (
	mu      sync.Mutex
	entries []entry
)

// Register adds a migration to the global registry.
// Call this from init() in your migration files.
func Register(name string, fn MigrationFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, entry{name: name, fn: fn})
}

type record struct {
	Name      string    `bson:"name"`
	AppliedAt time.Time `bson:"appliedAt"`
}

// RunAll executes every registered migration that has not been applied yet,
// in name order. It stops on the first error.
func RunAll(ctx context.Context, db *mongo.Database) error {
	mu.Lock()
	current := make([]entry, len(entries))
	copy(current, entries)
	mu.Unlock()

	sort.Slice(current, func(i, j int) bool { return current[i].name < current[j].name })

	ledger := db.Collection("migrations")

	applied := map[string]bool{}
	cur, err := ledger.Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("migrations: read ledger: %w", err)
	}
	var recs []record
	if err := cur.All(ctx, &recs); err != nil {
		return fmt.Errorf("migrations: decode ledger: %w", err)
	}
	for _, r := range recs {
		applied[r.Name] = true
	}

	for _, e := range current {
		if applied[e.name] {
			continue
		}
		if err := e.fn(ctx, db); err != nil {
			return fmt.Errorf("migration %q: %w", e.name, err)
		}
		if _, err := ledger.InsertOne(ctx, record{Name: e.name, AppliedAt: time.Now().UTC()}); err != nil {
			return fmt.Errorf("migrations: record %q: %w", e.name, err)
		}
	}
	return nil
}
