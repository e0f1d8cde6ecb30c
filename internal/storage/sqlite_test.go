package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/workshop-ledger/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func createTestWorkshop(t *testing.T, store *SQLiteStorage, title string) *model.Workshop {
	t.Helper()
	workshop := &model.Workshop{
		Title:       title,
		Date:        time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC),
		TicketPrice: 1500,
		SheetURL:    "https://docs.google.com/spreadsheets/d/" + title + "/edit",
	}
	require.NoError(t, store.CreateWorkshop(context.Background(), workshop))
	return workshop
}

func strPtr(s string) *string {
	return &s
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("creates parent directory", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "dir", "ledger.db")
		store, err := NewSQLiteStorage(dbPath)
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		assert.Equal(t, dbPath, store.Path())
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := NewSQLiteStorage("  ")
		assert.ErrorIs(t, err, ErrEmptyString)
	})

	t.Run("in memory", func(t *testing.T) {
		store, err := NewSQLiteStorage(":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		require.NoError(t, store.Migrate(context.Background()))
	})
}

func TestForeignKeysEnforced(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.UpsertRegistration(context.Background(), "no-such-workshop", 2, model.RegistrationFields{})
	assert.Error(t, err)
}
