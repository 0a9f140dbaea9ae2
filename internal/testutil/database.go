// Package testutil provides test helpers for building transaction histories
// and throwaway stores.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/the-spice-must-recur/internal/model"
	"github.com/Veraticus/the-spice-must-recur/internal/storage"
)

// TestDB represents a migrated in-memory store.
type TestDB struct {
	Storage *storage.SQLStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database seeded with txns.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t, testutil.Monthly("NETFLIX.COM", 15, 4, now)...)
func SetupTestDB(t *testing.T, txns ...model.Transaction) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db := &TestDB{Storage: store, t: t}
	if len(txns) > 0 {
		db.Seed(txns...)
	}
	return db
}

// Seed saves transactions, failing the test on error.
func (db *TestDB) Seed(txns ...model.Transaction) {
	db.t.Helper()
	if _, err := db.Storage.SaveTransactions(context.Background(), txns); err != nil {
		db.t.Fatalf("failed to seed transactions: %v", err)
	}
}

// Count returns the number of stored transactions.
func (db *TestDB) Count() int {
	db.t.Helper()
	n, err := db.Storage.GetTransactionCount(context.Background())
	if err != nil {
		db.t.Fatalf("failed to count transactions: %v", err)
	}
	return n
}
