package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/bookstore/internal/store"
)

// EvaluateAssertions checks every assertion against the store and returns
// one message per failure. An empty slice means all assertions held.
func EvaluateAssertions(ctx context.Context, st *store.Store, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluate(ctx, st, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d] %s: %v", i, a.Type, err))
		}
	}
	return failures
}

func evaluate(ctx context.Context, st *store.Store, a Assertion) error {
	switch a.Type {
	case AssertBookStock:
		book, err := st.GetBook(ctx, a.Book)
		if err != nil {
			return err
		}
		if book.Stock != a.Value {
			return fmt.Errorf("book %s stock: expected %d, got %d", a.Book, a.Value, book.Stock)
		}

	case AssertSaleTotal:
		sale, err := st.GetSale(ctx, a.Sale)
		if err != nil {
			return err
		}
		if sale.Total != a.Value {
			return fmt.Errorf("sale %d total: expected %d, got %d", a.Sale, a.Value, sale.Total)
		}

	case AssertSaleCount:
		n, err := st.CountSales(ctx)
		if err != nil {
			return err
		}
		if n != a.Count {
			return fmt.Errorf("sale count: expected %d, got %d", a.Count, n)
		}

	case AssertSaleAbsent:
		_, err := st.GetSale(ctx, a.Sale)
		if err == nil {
			return fmt.Errorf("sale %d: expected absent, still present", a.Sale)
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
