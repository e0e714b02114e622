package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/bookstore/internal/ledger"
)

// Tx is a write scope opened by WithTx.
// Every mutation of the ledger goes through a Tx so that stock and sale rows
// change together or not at all.
type Tx struct {
	tx *sql.Tx
}

// WithTx runs fn inside a single transaction.
//
// The transaction commits only if fn returns nil. Any other exit - an error
// from fn, a failed commit, or a panic unwinding through fn - rolls it back,
// leaving the database as it was before the call. Errors returned by fn are
// passed through unchanged.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback() // No-op if committed

	if err := fn(&Tx{tx: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetMember returns the member with the given id inside the transaction.
func (t *Tx) GetMember(ctx context.Context, mid string) (ledger.Member, error) {
	return getMember(ctx, t.tx, mid)
}

// GetBook returns the book with the given id inside the transaction.
func (t *Tx) GetBook(ctx context.Context, bid string) (ledger.Book, error) {
	return getBook(ctx, t.tx, bid)
}

// GetSale returns the sale with the given id inside the transaction.
func (t *Tx) GetSale(ctx context.Context, sid int64) (ledger.Sale, error) {
	return getSale(ctx, t.tx, sid)
}

// GetSaleWithPrice returns the sale joined with its book's current price.
func (t *Tx) GetSaleWithPrice(ctx context.Context, sid int64) (SaleWithPrice, error) {
	return getSaleWithPrice(ctx, t.tx, sid)
}

// InsertSale inserts a sale row and returns its newly assigned sid.
// sale.ID is ignored.
func (t *Tx) InsertSale(ctx context.Context, sale ledger.Sale) (int64, error) {
	result, err := t.tx.ExecContext(ctx, `
		INSERT INTO sale (sdate, mid, bid, sqty, sdiscount, stotal)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		sale.Date,
		sale.MemberID,
		sale.BookID,
		sale.Qty,
		sale.Discount,
		sale.Total,
	)
	if err != nil {
		return 0, fmt.Errorf("insert sale: %w", err)
	}

	sid, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert sale: last insert id: %w", err)
	}
	return sid, nil
}

// AdjustStock adds delta (negative to decrement) to a book's stock.
// Returns ErrNotFound if the book does not exist. A result below zero is
// rejected by the schema's CHECK constraint.
func (t *Tx) AdjustStock(ctx context.Context, bid string, delta int64) error {
	result, err := t.tx.ExecContext(ctx,
		`UPDATE book SET bstock = bstock + ? WHERE bid = ?`,
		delta, bid,
	)
	if err != nil {
		return fmt.Errorf("adjust stock for book %q: %w", bid, err)
	}
	return expectOneRow(result, fmt.Sprintf("adjust stock for book %q", bid))
}

// UpdateSaleDiscount sets the discount and total of an existing sale.
func (t *Tx) UpdateSaleDiscount(ctx context.Context, sid, discount, total int64) error {
	result, err := t.tx.ExecContext(ctx,
		`UPDATE sale SET sdiscount = ?, stotal = ? WHERE sid = ?`,
		discount, total, sid,
	)
	if err != nil {
		return fmt.Errorf("update sale %d: %w", sid, err)
	}
	return expectOneRow(result, fmt.Sprintf("update sale %d", sid))
}

// DeleteSale removes a sale row.
func (t *Tx) DeleteSale(ctx context.Context, sid int64) error {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM sale WHERE sid = ?`, sid)
	if err != nil {
		return fmt.Errorf("delete sale %d: %w", sid, err)
	}
	return expectOneRow(result, fmt.Sprintf("delete sale %d", sid))
}

// expectOneRow returns ErrNotFound (wrapped with op) if result touched no rows.
func expectOneRow(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
