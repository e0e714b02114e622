// Package store provides SQLite-backed durable storage for the bookstore ledger.
//
// The store owns three tables:
//   - member: registered customers (seeded, never deleted here)
//   - book: catalog items with price and stock
//   - sale: one row per purchase, sid assigned by AUTOINCREMENT
//
// # Reads
//
// All reads return typed records from the ledger package. Missing rows are
// reported as errors wrapping ErrNotFound. Listing queries are ordered by
// sid ascending.
//
// # Writes
//
// Ledger mutations happen only through WithTx. The scope commits when its
// function returns nil and rolls back on every other path, so a sale row and
// its stock adjustment persist together or not at all.
//
// # Database Configuration
//
//   - WAL mode for file databases
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - a single open connection (one writer, one process)
package store
