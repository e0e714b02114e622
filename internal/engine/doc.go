// Package engine implements the consistency engine of the bookstore ledger.
//
// The engine is the only writer of sales. Each operation validates its input,
// then reads and writes the store inside one store.WithTx scope:
//
//	CreateSale         insert sale row + decrement book stock
//	UpdateSaleDiscount rewrite discount and total (stock untouched)
//	DeleteSale         restore book stock + delete sale row
//
// Validation failures are detected before any write and returned as
// ledger.LedgerError values (INVALID_INPUT, NOT_FOUND, INSUFFICIENT_STOCK).
// Any other failure inside the scope rolls the transaction back and is
// returned as STORAGE_ERROR with the cause attached.
//
// The engine is synchronous and not safe for concurrent mutations; the store
// holds a single connection and callers run one operation at a time.
package engine
