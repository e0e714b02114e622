package cli

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/roach88/bookstore/internal/report"
)

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print every sale with member, book and totals",
		Long: `Print the full sale report, ordered by sale id.

In JSON mode the records are emitted as an array.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			s, err := rootOpts.openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			seq := report.Records(cmd.Context(), s.store)

			if f.Format == "json" {
				records, err := report.Collect(seq)
				if err != nil {
					return f.Fail(err)
				}
				return f.Success(records, "")
			}

			var buf bytes.Buffer
			if _, err := report.Render(&buf, seq); err != nil {
				return f.Fail(err)
			}
			return f.Success(nil, buf.String())
		},
	}
}
