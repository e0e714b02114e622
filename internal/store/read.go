package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/bookstore/internal/ledger"
)

// querier is satisfied by both *sql.DB and *sql.Tx so reads can run inside
// or outside a write scope.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SaleWithPrice is a sale joined with the current price of its book.
type SaleWithPrice struct {
	ledger.Sale
	Price int64
}

// GetMember returns the member with the given id.
// Returns an error wrapping ErrNotFound if it does not exist.
func (s *Store) GetMember(ctx context.Context, mid string) (ledger.Member, error) {
	return getMember(ctx, s.db, mid)
}

// GetBook returns the book with the given id.
// Returns an error wrapping ErrNotFound if it does not exist.
func (s *Store) GetBook(ctx context.Context, bid string) (ledger.Book, error) {
	return getBook(ctx, s.db, bid)
}

// GetSale returns the sale with the given id.
// Returns an error wrapping ErrNotFound if it does not exist.
func (s *Store) GetSale(ctx context.Context, sid int64) (ledger.Sale, error) {
	return getSale(ctx, s.db, sid)
}

// GetSaleWithPrice returns the sale joined with its book's current price.
// Returns an error wrapping ErrNotFound if the sale, or its book, does not exist.
func (s *Store) GetSaleWithPrice(ctx context.Context, sid int64) (SaleWithPrice, error) {
	return getSaleWithPrice(ctx, s.db, sid)
}

// CountSales returns the number of sale rows.
func (s *Store) CountSales(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sale`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return n, nil
}

// ListSaleSummaries returns (sid, member name, date) for every sale, ordered by sid.
// Sales whose member no longer exists are omitted, matching the report join.
//
// Returns an empty slice (not nil) if there are no sales.
func (s *Store) ListSaleSummaries(ctx context.Context) ([]ledger.SaleSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sale.sid, member.mname, sale.sdate
		FROM sale
		JOIN member ON sale.mid = member.mid
		ORDER BY sale.sid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sale summaries: %w", err)
	}
	defer rows.Close()

	summaries := []ledger.SaleSummary{}
	for rows.Next() {
		var sum ledger.SaleSummary
		if err := rows.Scan(&sum.SaleID, &sum.MemberName, &sum.Date); err != nil {
			return nil, fmt.Errorf("scan sale summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale summaries: %w", err)
	}
	return summaries, nil
}

// ScanSaleRecords reads the joined sale report, ordered by sid, and calls
// yield once per row. Scanning stops early, without error, when yield
// returns false. The query runs afresh on every call.
//
// Rows are read and the cursor closed before the first yield, so yield may
// call back into the store (the store has a single connection).
func (s *Store) ScanSaleRecords(ctx context.Context, yield func(ledger.SaleRecord) bool) error {
	records, err := s.readSaleRecords(ctx)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if !yield(rec) {
			return nil
		}
	}
	return nil
}

func (s *Store) readSaleRecords(ctx context.Context) ([]ledger.SaleRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			sale.sid,
			sale.sdate,
			member.mname,
			book.btitle,
			book.bprice,
			sale.sqty,
			sale.sdiscount,
			sale.stotal
		FROM sale
		JOIN member ON sale.mid = member.mid
		JOIN book ON sale.bid = book.bid
		ORDER BY sale.sid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sale records: %w", err)
	}
	defer rows.Close()

	var records []ledger.SaleRecord
	for rows.Next() {
		var rec ledger.SaleRecord
		if err := rows.Scan(
			&rec.SaleID,
			&rec.Date,
			&rec.MemberName,
			&rec.BookTitle,
			&rec.Price,
			&rec.Qty,
			&rec.Discount,
			&rec.Total,
		); err != nil {
			return nil, fmt.Errorf("scan sale record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale records: %w", err)
	}
	return records, nil
}

func getMember(ctx context.Context, q querier, mid string) (ledger.Member, error) {
	var m ledger.Member
	var email sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT mid, mname, mphone, memail FROM member WHERE mid = ?`, mid,
	).Scan(&m.ID, &m.Name, &m.Phone, &email)
	if err != nil {
		return ledger.Member{}, rowError(err, fmt.Sprintf("get member %q", mid))
	}
	if email.Valid {
		m.Email = &email.String
	}
	return m, nil
}

func getBook(ctx context.Context, q querier, bid string) (ledger.Book, error) {
	var b ledger.Book
	err := q.QueryRowContext(ctx,
		`SELECT bid, btitle, bprice, bstock FROM book WHERE bid = ?`, bid,
	).Scan(&b.ID, &b.Title, &b.Price, &b.Stock)
	if err != nil {
		return ledger.Book{}, rowError(err, fmt.Sprintf("get book %q", bid))
	}
	return b, nil
}

func getSale(ctx context.Context, q querier, sid int64) (ledger.Sale, error) {
	var sale ledger.Sale
	err := q.QueryRowContext(ctx, `
		SELECT sid, sdate, mid, bid, sqty, sdiscount, stotal
		FROM sale WHERE sid = ?
	`, sid).Scan(
		&sale.ID,
		&sale.Date,
		&sale.MemberID,
		&sale.BookID,
		&sale.Qty,
		&sale.Discount,
		&sale.Total,
	)
	if err != nil {
		return ledger.Sale{}, rowError(err, fmt.Sprintf("get sale %d", sid))
	}
	return sale, nil
}

func getSaleWithPrice(ctx context.Context, q querier, sid int64) (SaleWithPrice, error) {
	var sp SaleWithPrice
	err := q.QueryRowContext(ctx, `
		SELECT sale.sid, sale.sdate, sale.mid, sale.bid, sale.sqty, sale.sdiscount, sale.stotal, book.bprice
		FROM sale
		JOIN book ON sale.bid = book.bid
		WHERE sale.sid = ?
	`, sid).Scan(
		&sp.ID,
		&sp.Date,
		&sp.MemberID,
		&sp.BookID,
		&sp.Qty,
		&sp.Discount,
		&sp.Total,
		&sp.Price,
	)
	if err != nil {
		return SaleWithPrice{}, rowError(err, fmt.Sprintf("get sale %d with price", sid))
	}
	return sp, nil
}

// rowError maps sql.ErrNoRows to ErrNotFound and wraps everything with op.
func rowError(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
