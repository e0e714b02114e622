package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/bookstore/internal/ledger"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createSeededStore creates a store holding member M001 and book B001 (price 500, stock 10).
func createSeededStore(t *testing.T) *Store {
	t.Helper()
	s := createTestStore(t)
	email := "alice@example.com"
	err := s.Seed(context.Background(),
		[]ledger.Member{{ID: "M001", Name: "Alice", Phone: "0912345678", Email: &email}},
		[]ledger.Book{{ID: "B001", Title: "Python入門", Price: 500, Stock: 10}},
	)
	if err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}
	return s
}

// insertTestSale writes a sale directly, bypassing stock accounting.
func insertTestSale(t *testing.T, s *Store, sale ledger.Sale) int64 {
	t.Helper()
	var sid int64
	err := s.WithTx(context.Background(), func(tx *Tx) error {
		var err error
		sid, err = tx.InsertSale(context.Background(), sale)
		return err
	})
	if err != nil {
		t.Fatalf("InsertSale() failed: %v", err)
	}
	return sid
}
