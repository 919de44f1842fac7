package migrations

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateUp(t *testing.T) {
	db := newTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}

	t.Run("creates all tables", func(t *testing.T) {
		for _, table := range []string{"plans", "plan_items", "file_cache", "operations"} {
			var name string
			err := db.QueryRow(
				"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
			if err != nil {
				t.Errorf("expected table %s to exist: %v", table, err)
			}
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		if err := MigrateUp(db); err != nil {
			t.Errorf("second MigrateUp failed: %v", err)
		}
	})
}

func TestCheckStatus(t *testing.T) {
	t.Run("fails on unmigrated database", func(t *testing.T) {
		db := newTestDB(t)
		if err := CheckStatus(db); err == nil {
			t.Errorf("expected error for unmigrated database")
		}
	})

	t.Run("passes after migration", func(t *testing.T) {
		db := newTestDB(t)
		if err := MigrateUp(db); err != nil {
			t.Fatalf("MigrateUp failed: %v", err)
		}
		if err := CheckStatus(db); err != nil {
			t.Errorf("CheckStatus failed: %v", err)
		}
	})
}
