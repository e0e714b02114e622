// Package report provides the read-only views over the sales ledger.
//
// Records streams the full joined report and Summary lists sales for
// selection. Neither view writes to the store; both re-run their query on
// every call, so results always reflect the current ledger.
package report

import (
	"context"
	"iter"

	"github.com/roach88/bookstore/internal/ledger"
	"github.com/roach88/bookstore/internal/store"
)

// Records returns a lazy sequence of sale records ordered by sale id.
//
// Each range over the sequence runs the query again. The loop body may call
// the store, including engine mutations; they do not change the records of
// the range already in progress. A query failure is
// yielded once as a STORAGE_ERROR with a zero record, after which the
// sequence ends.
func Records(ctx context.Context, st *store.Store) iter.Seq2[ledger.SaleRecord, error] {
	return func(yield func(ledger.SaleRecord, error) bool) {
		stopped := false
		err := st.ScanSaleRecords(ctx, func(rec ledger.SaleRecord) bool {
			if !yield(rec, nil) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil && !stopped {
			yield(ledger.SaleRecord{}, ledger.NewStorageError("read sale report", err))
		}
	}
}

// Collect drains a record sequence into a slice, stopping at the first error.
func Collect(seq iter.Seq2[ledger.SaleRecord, error]) ([]ledger.SaleRecord, error) {
	records := []ledger.SaleRecord{}
	for rec, err := range seq {
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Summary returns the compact sale listing and, in the same order, the ids
// a caller may pick for update or delete.
func Summary(ctx context.Context, st *store.Store) ([]ledger.SaleSummary, []int64, error) {
	summaries, err := st.ListSaleSummaries(ctx)
	if err != nil {
		return nil, nil, ledger.NewStorageError("list sales", err)
	}

	ids := make([]int64, len(summaries))
	for i, s := range summaries {
		ids[i] = s.SaleID
	}
	return summaries, ids, nil
}
