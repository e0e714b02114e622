// Package cli implements the bookstore command-line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/bookstore/internal/catalog"
	"github.com/roach88/bookstore/internal/engine"
	"github.com/roach88/bookstore/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the bookstore CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "bookstore",
		Short: "Bookstore sales ledger",
		Long: `Record book sales against members and stock.

Every sale decrements the book's stock; deleting a sale restores it.
The ledger lives in a single SQLite file (--db).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "bookstore.db", "path to the ledger database")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewSaleCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// formatter builds the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:  o.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: o.Verbose,
	}
}

// logger writes structured logs to the command's stderr so JSON output on
// stdout stays clean.
func (o *RootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))
}

// session is an open ledger: the store, its engine and the logger they share.
type session struct {
	store  *store.Store
	engine *engine.Engine
	logger *slog.Logger
}

// openSession opens the database and makes sure the default catalog is
// present. The caller must Close the session.
func (o *RootOptions) openSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	logger := o.logger(cmd)

	logger.Debug("opening database", "path", o.Database)
	st, err := store.Open(o.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	if err := catalog.Apply(ctx, st, catalog.Default()); err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to seed database", err)
	}

	return &session{
		store:  st,
		engine: engine.New(st, engine.WithLogger(logger)),
		logger: logger,
	}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing database", "error", err)
	}
}
