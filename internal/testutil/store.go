package testutil

import (
	"testing"

	"tidy-go/internal/store"
	"tidy-go/internal/store/migrations"
	"tidy-go/internal/tidy"
)

// NewTestStore creates a new in-memory SQLite store with schema applied.
// The store is automatically closed when the test completes.
func NewTestStore(t *testing.T) tidy.Store {
	t.Helper()

	db, err := store.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		t.Fatalf("failed to apply migrations: %v", err)
	}

	st := store.NewSQLiteStoreFromDB(db)

	t.Cleanup(func() {
		st.Close()
	})

	return st
}
