// Package testutil provides test utilities for the pulse project.
// It offers isolated in-memory databases seeded with mention snapshots.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/sentiment-pulse/internal/model"
	"github.com/Veraticus/sentiment-pulse/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new migrated in-memory test database.
// It is closed automatically when the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	db.SeedSnapshot("week-1", mentions.NewBuilder(t).WithLabeled(3, "positive", "France", "Twitter").Build())
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// SeedSnapshot stores mentions under name or fails the test.
func (db *TestDB) SeedSnapshot(name string, mentions []model.Mention) *model.Snapshot {
	db.t.Helper()

	snapshot, err := db.Storage.CreateSnapshot(context.Background(), name, "test", mentions, nil)
	if err != nil {
		db.t.Fatalf("failed to seed snapshot %q: %v", name, err)
	}
	return snapshot
}

// MustLoad returns the mentions of a snapshot or fails the test.
func (db *TestDB) MustLoad(ref string) []model.Mention {
	db.t.Helper()

	mentions, err := db.Storage.LoadMentions(context.Background(), ref)
	if err != nil {
		db.t.Fatalf("failed to load snapshot %q: %v", ref, err)
	}
	return mentions
}
