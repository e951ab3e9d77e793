package testutil

import (
	"context"
	"database/sql"
	"testing"

	"class-notifier/internal/db"
)

// OpenDB opens a migrated in-memory database that is closed when the test ends.
func OpenDB(t testing.TB) *sql.DB {
	t.Helper()

	sqldb, err := db.Open(context.Background(), db.Config{File: ":memory:"})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		sqldb.Close()
	})
	return sqldb
}
