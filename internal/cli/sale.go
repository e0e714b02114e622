package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bookstore/internal/engine"
	"github.com/roach88/bookstore/internal/ledger"
	"github.com/roach88/bookstore/internal/report"
)

// SaleAddOptions holds flags for the sale add command.
// Numeric fields are kept as text so malformed input is reported as a
// ledger INVALID_INPUT error rather than a flag parse error.
type SaleAddOptions struct {
	*RootOptions
	Date     string
	Member   string
	Book     string
	Qty      string
	Discount string
}

// SaleAddResult is the JSON payload of sale add.
type SaleAddResult struct {
	SaleID int64 `json:"sid"`
	Total  int64 `json:"stotal"`
}

// NewSaleCommand creates the sale command group.
func NewSaleCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sale",
		Short: "Record, change and remove sales",
	}

	cmd.AddCommand(newSaleAddCommand(rootOpts))
	cmd.AddCommand(newSaleUpdateCommand(rootOpts))
	cmd.AddCommand(newSaleDeleteCommand(rootOpts))
	cmd.AddCommand(newSaleListCommand(rootOpts))

	return cmd
}

func newSaleAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaleAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a sale",
		Long: `Record a sale and decrement the book's stock.

The total is price*qty - discount at the book's current price.

Examples:
  bookstore sale add --date 2024-01-15 --member M001 --book B001 --qty 2 --discount 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSaleAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "sale date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Member, "member", "", "member id")
	cmd.Flags().StringVar(&opts.Book, "book", "", "book id")
	cmd.Flags().StringVar(&opts.Qty, "qty", "", "quantity (positive integer)")
	cmd.Flags().StringVar(&opts.Discount, "discount", "0", "discount amount (non-negative integer)")
	for _, name := range []string{"date", "member", "book", "qty"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runSaleAdd(opts *SaleAddOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	qty, err := ledger.ParseInt("quantity", opts.Qty)
	if err != nil {
		return f.Fail(err)
	}
	discount, err := ledger.ParseInt("discount", opts.Discount)
	if err != nil {
		return f.Fail(err)
	}

	s, err := opts.openSession(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	sid, err := s.engine.CreateSale(cmd.Context(), engine.CreateSaleInput{
		Date:     opts.Date,
		MemberID: opts.Member,
		BookID:   opts.Book,
		Qty:      qty,
		Discount: discount,
	})
	if err != nil {
		return f.Fail(err)
	}

	sale, err := s.store.GetSale(cmd.Context(), sid)
	if err != nil {
		return f.Fail(ledger.NewStorageError("read sale", err))
	}

	result := SaleAddResult{SaleID: sale.ID, Total: sale.Total}
	return f.Success(result, fmt.Sprintf("Sale %d recorded, total %d\n", sale.ID, sale.Total))
}

func newSaleUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var discount string

	cmd := &cobra.Command{
		Use:   "update <sale-id>",
		Short: "Change a sale's discount",
		Long: `Change a sale's discount and recompute its total.

The total uses the book's current price and the sale's recorded quantity.
Stock is not affected.

Examples:
  bookstore sale update 1 --discount 100`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			sid, err := ledger.ParseInt("sale id", args[0])
			if err != nil {
				return f.Fail(err)
			}

			s, err := rootOpts.openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			sale, err := s.engine.UpdateSaleDiscount(cmd.Context(), sid, discount)
			if err != nil {
				return f.Fail(err)
			}
			return f.Success(sale, fmt.Sprintf("Sale %d updated, total %d\n", sale.ID, sale.Total))
		},
	}

	cmd.Flags().StringVar(&discount, "discount", "", "new discount amount")
	_ = cmd.MarkFlagRequired("discount")

	return cmd
}

func newSaleDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <sale-id>",
		Short: "Delete a sale and restore its stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			sid, err := ledger.ParseInt("sale id", args[0])
			if err != nil {
				return f.Fail(err)
			}

			s, err := rootOpts.openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			sale, err := s.engine.DeleteSale(cmd.Context(), sid)
			if err != nil {
				return f.Fail(err)
			}
			return f.Success(sale, fmt.Sprintf("Sale %d deleted, %d restored to %s\n",
				sale.ID, sale.Qty, sale.BookID))
		},
	}
}

func newSaleListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sales by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			s, err := rootOpts.openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			summaries, _, err := report.Summary(cmd.Context(), s.store)
			if err != nil {
				return f.Fail(err)
			}

			var buf bytes.Buffer
			if err := report.RenderSummary(&buf, summaries); err != nil {
				return err
			}
			return f.Success(summaries, buf.String())
		},
	}
}
