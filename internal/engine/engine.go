package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"

	"github.com/roach88/bookstore/internal/ledger"
	"github.com/roach88/bookstore/internal/store"
)

// Engine validates and applies sale mutations against a store.
//
// Construct one Engine per store at process start and pass it to callers;
// it holds no other state.
type Engine struct {
	store  *store.Store
	logger *slog.Logger
	opGen  OpIDGenerator
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Default: discards all output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithOpIDGenerator sets the op id generator. Default: UUIDv7Generator.
func WithOpIDGenerator(gen OpIDGenerator) Option {
	return func(e *Engine) {
		e.opGen = gen
	}
}

// New creates an Engine over the given store.
func New(s *store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  s,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		opGen:  UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateSaleInput holds the arguments of CreateSale.
type CreateSaleInput struct {
	Date     string
	MemberID string
	BookID   string
	Qty      int64
	Discount int64
}

// CreateSale records a sale and decrements the book's stock by its quantity.
//
// Checks run in this order and the first failure wins:
//  1. Date is YYYY-MM-DD (INVALID_INPUT, before touching the store)
//  2. Member exists (NOT_FOUND)
//  3. Book exists (NOT_FOUND)
//  4. Qty > 0 and Discount >= 0 (INVALID_INPUT)
//  5. Book stock >= Qty (INSUFFICIENT_STOCK)
//  6. price*qty - discount fits in int64 (INVALID_INPUT)
//
// The total is price*qty - discount at the book's current price and may be
// negative. The sale row and the stock decrement commit together.
// Returns the new sale id.
func (e *Engine) CreateSale(ctx context.Context, in CreateSaleInput) (int64, error) {
	op := e.opGen.Generate()
	log := e.logger.With("op", op, "action", "create_sale")

	if err := ledger.ValidateSaleDate(in.Date); err != nil {
		log.Debug("rejected", "error", err)
		return 0, err
	}

	var sid int64
	err := e.store.WithTx(ctx, func(tx *store.Tx) error {
		if _, err := tx.GetMember(ctx, in.MemberID); err != nil {
			return lookupError(err, ledger.EntityMember, in.MemberID)
		}

		book, err := tx.GetBook(ctx, in.BookID)
		if err != nil {
			return lookupError(err, ledger.EntityBook, in.BookID)
		}

		if in.Qty <= 0 || in.Discount < 0 {
			return ledger.NewInvalidInput(
				"quantity must be a positive integer and discount a non-negative integer (qty=%d, discount=%d)",
				in.Qty, in.Discount,
			)
		}

		if book.Stock < in.Qty {
			return ledger.NewInsufficientStock(book.ID, book.Stock, in.Qty)
		}

		total, err := ledger.ComputeTotal(book.Price, in.Qty, in.Discount)
		if err != nil {
			return err
		}

		sid, err = tx.InsertSale(ctx, ledger.Sale{
			Date:     in.Date,
			MemberID: in.MemberID,
			BookID:   in.BookID,
			Qty:      in.Qty,
			Discount: in.Discount,
			Total:    total,
		})
		if err != nil {
			return err
		}

		return tx.AdjustStock(ctx, book.ID, -in.Qty)
	})
	if err != nil {
		err = classify("create sale", err)
		log.Info("create sale failed", "code", ledger.CodeOf(err), "error", err)
		return 0, err
	}

	log.Info("sale created", "sid", sid, "bid", in.BookID, "qty", in.Qty)
	return sid, nil
}

// UpdateSaleDiscount sets a new discount on an existing sale and recomputes
// its total from the book's current price and the sale's original quantity.
//
// The sale is looked up first (NOT_FOUND), then rawDiscount is parsed as an
// integer (INVALID_INPUT). No floor or ceiling is applied to the new
// discount, so the total may become negative; a total outside the int64
// range is INVALID_INPUT. Stock, quantity, member, book and date are
// unchanged. Returns the updated sale.
//
// The ledger never changes a book's price (seeding skips existing ids), so
// the current price is the price captured when the sale was created.
func (e *Engine) UpdateSaleDiscount(ctx context.Context, saleID int64, rawDiscount string) (ledger.Sale, error) {
	op := e.opGen.Generate()
	log := e.logger.With("op", op, "action", "update_discount", "sid", saleID)

	var updated ledger.Sale
	err := e.store.WithTx(ctx, func(tx *store.Tx) error {
		sp, err := tx.GetSaleWithPrice(ctx, saleID)
		if err != nil {
			return lookupError(err, ledger.EntitySale, strconv.FormatInt(saleID, 10))
		}

		discount, err := ledger.ParseInt("discount", rawDiscount)
		if err != nil {
			return err
		}

		total, err := ledger.ComputeTotal(sp.Price, sp.Qty, discount)
		if err != nil {
			return err
		}
		if err := tx.UpdateSaleDiscount(ctx, saleID, discount, total); err != nil {
			return err
		}

		updated = sp.Sale
		updated.Discount = discount
		updated.Total = total
		return nil
	})
	if err != nil {
		err = classify("update sale", err)
		log.Info("update sale failed", "code", ledger.CodeOf(err), "error", err)
		return ledger.Sale{}, err
	}

	log.Info("sale updated", "discount", updated.Discount, "total", updated.Total)
	return updated, nil
}

// DeleteSale removes a sale and restores its quantity to the book's stock.
// Both changes commit together. Returns the deleted sale.
//
// Deletes do not cascade and books are never removed by the ledger. If the
// sale's book was removed from the database by other means, the stock
// restore fails, nothing is deleted and the error is STORAGE_ERROR.
func (e *Engine) DeleteSale(ctx context.Context, saleID int64) (ledger.Sale, error) {
	op := e.opGen.Generate()
	log := e.logger.With("op", op, "action", "delete_sale", "sid", saleID)

	var deleted ledger.Sale
	err := e.store.WithTx(ctx, func(tx *store.Tx) error {
		sale, err := tx.GetSale(ctx, saleID)
		if err != nil {
			return lookupError(err, ledger.EntitySale, strconv.FormatInt(saleID, 10))
		}

		if err := tx.AdjustStock(ctx, sale.BookID, sale.Qty); err != nil {
			return err
		}
		if err := tx.DeleteSale(ctx, saleID); err != nil {
			return err
		}

		deleted = sale
		return nil
	})
	if err != nil {
		err = classify("delete sale", err)
		log.Info("delete sale failed", "code", ledger.CodeOf(err), "error", err)
		return ledger.Sale{}, err
	}

	log.Info("sale deleted", "bid", deleted.BookID, "restored", deleted.Qty)
	return deleted, nil
}

// lookupError converts a store miss into NOT_FOUND. Other errors pass
// through to be classified as storage failures.
func lookupError(err error, entity, key string) error {
	if errors.Is(err, store.ErrNotFound) {
		return ledger.NewNotFound(entity, key)
	}
	return err
}

// classify returns domain errors unchanged and wraps everything else as
// STORAGE_ERROR. By the time it runs, WithTx has already rolled back.
func classify(op string, err error) error {
	var le *ledger.LedgerError
	if errors.As(err, &le) {
		return err
	}
	return ledger.NewStorageError(op, err)
}
