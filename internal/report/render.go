package report

import (
	"fmt"
	"io"
	"iter"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/bookstore/internal/ledger"
)

const (
	heavyRule = "=================================================="
	lightRule = "--------------------------------------------------"
)

// amountPrinter groups thousands ("1,250"). Ids, indexes and quantities are
// passed as strings so they are never grouped.
func amountPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

// Render writes the full sale report for seq to w.
//
// Amounts are printed with thousands separators; titles and names are
// NFC-normalized. Returns the number of records written. A sequence error
// stops rendering and is returned as-is.
func Render(w io.Writer, seq iter.Seq2[ledger.SaleRecord, error]) (int, error) {
	if _, err := fmt.Fprintln(w, "\n==================== Sales Report ===================="); err != nil {
		return 0, err
	}

	n := 0
	for rec, err := range seq {
		if err != nil {
			return n, err
		}
		n++
		if err := renderRecord(w, n, rec); err != nil {
			return n, err
		}
	}
	return n, nil
}

func renderRecord(w io.Writer, index int, rec ledger.SaleRecord) error {
	_, err := io.WriteString(w, amountPrinter().Sprintf(
		"Sale #%s\n"+
			"Sale ID:     %s\n"+
			"Sale date:   %s\n"+
			"Member:      %s\n"+
			"Book title:  %s\n"+
			"%s\n"+
			"Price\tQty\tDiscount\tSubtotal\n"+
			"%s\n"+
			"%d\t%s\t%d\t%d\n"+
			"%s\n"+
			"Sale total:  %d\n"+
			"%s\n",
		strconv.Itoa(index),
		strconv.FormatInt(rec.SaleID, 10),
		rec.Date,
		norm.NFC.String(rec.MemberName),
		norm.NFC.String(rec.BookTitle),
		lightRule,
		lightRule,
		rec.Price, strconv.FormatInt(rec.Qty, 10), rec.Discount, rec.Total,
		lightRule,
		rec.Total,
		heavyRule,
	))
	return err
}

// RenderSummary writes the numbered sale listing to w.
func RenderSummary(w io.Writer, summaries []ledger.SaleSummary) error {
	if _, err := fmt.Fprintln(w, "======== Sales ========"); err != nil {
		return err
	}
	for i, s := range summaries {
		line := fmt.Sprintf("%d. Sale ID: %d - Member: %s - Date: %s\n",
			i+1, s.SaleID, norm.NFC.String(s.MemberName), s.Date)
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "=======================")
	return err
}
