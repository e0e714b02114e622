package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/bookstore/internal/catalog"
	"github.com/roach88/bookstore/internal/store"
)

// OpenSeededStore opens a fresh file-backed store in t.TempDir() and applies
// the default catalog (M001, and B001 at price 500 with stock 10).
// The store is closed when the test ends.
func OpenSeededStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if err := catalog.Apply(context.Background(), st, catalog.Default()); err != nil {
		t.Fatalf("catalog.Apply() failed: %v", err)
	}
	return st
}

// BookStock returns the current stock of a book, failing the test on error.
func BookStock(t *testing.T, st *store.Store, bid string) int64 {
	t.Helper()
	b, err := st.GetBook(context.Background(), bid)
	if err != nil {
		t.Fatalf("GetBook(%q) failed: %v", bid, err)
	}
	return b.Stock
}

// FailOn installs a SQLite trigger that aborts the given statement kind
// ("INSERT", "UPDATE" or "DELETE") on table, simulating a storage fault.
// The returned func removes the trigger.
func FailOn(t *testing.T, st *store.Store, kind, table string) func() {
	t.Helper()
	name := "fail_" + kind + "_" + table
	_, err := st.DB().Exec(
		"CREATE TRIGGER " + name + " BEFORE " + kind + " ON " + table +
			" BEGIN SELECT RAISE(ABORT, 'injected " + kind + " failure on " + table + "'); END",
	)
	if err != nil {
		t.Fatalf("install trigger %s: %v", name, err)
	}
	return func() {
		if _, err := st.DB().Exec("DROP TRIGGER IF EXISTS " + name); err != nil {
			t.Errorf("drop trigger %s: %v", name, err)
		}
	}
}
