// Package testutil provides test databases seeded with workshops.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/workshop-ledger/internal/model"
	"github.com/Veraticus/workshop-ledger/internal/storage"
)

// TestDB is a migrated in-memory store closed when the test ends.
type TestDB struct {
	Storage   *storage.SQLiteStorage
	t         *testing.T
	Workshops []*model.Workshop
}

// TestDBOptions configures SetupTestDBWithOptions.
type TestDBOptions struct {
	CustomSetup    func(context.Context, *storage.SQLiteStorage) error
	Workshops      []model.Workshop
	SkipMigrations bool
}

// SetupTestDB creates a migrated in-memory database with no data.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// SetupTestDBWithOptions creates an in-memory database, migrates it unless
// told not to, and seeds the given workshops in order.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	db := &TestDB{Storage: store, t: t}
	for i := range opts.Workshops {
		db.MustCreateWorkshop(opts.Workshops[i])
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return db
}

// MustCreateWorkshop stores w, filling in a title and date when they are
// missing, and fails the test on error.
func (db *TestDB) MustCreateWorkshop(w model.Workshop) *model.Workshop {
	db.t.Helper()

	if w.Title == "" {
		w.Title = "Test workshop"
	}
	if w.Date.IsZero() {
		w.Date = time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)
	}
	if err := db.Storage.CreateWorkshop(context.Background(), &w); err != nil {
		db.t.Fatalf("failed to seed workshop %q: %v", w.Title, err)
	}

	db.Workshops = append(db.Workshops, &w)
	return &w
}
