// Package ledger defines the typed records and error values shared by the
// bookstore sales ledger.
//
// # Records
//
//   - Member: a registered customer, seeded externally and never mutated here
//   - Book: a priced catalog item whose stock is changed only by sales
//   - Sale: one purchase linking a member and a book
//
// Rows are always returned as these structs. Column names live in the store
// package and never leak out as string-keyed maps.
//
// # Invariants
//
//   - Book.Stock >= 0 at all times
//   - Sale.Qty > 0 and Sale.Discount >= 0 when the sale is created
//   - Sale.Total == price*qty - discount, using the price captured when the
//     total was computed; totals are never clamped at zero
package ledger
