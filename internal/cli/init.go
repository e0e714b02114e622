package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bookstore/internal/catalog"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	Catalog string
}

// InitResult is the JSON payload of the init command.
type InitResult struct {
	Database string `json:"database"`
	Members  int    `json:"members"`
	Books    int    `json:"books"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the ledger database and seed its catalog",
		Long: `Create the ledger database if needed and seed the default catalog.

With --catalog, members and books from the given YAML file are added too.
Existing ids are left untouched, so init can be run repeatedly.

Examples:
  bookstore init
  bookstore init --catalog ./catalog.yaml --db shop.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "extra catalog YAML to seed")

	return cmd
}

func runInit(opts *InitOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()

	var extra *catalog.Catalog
	if opts.Catalog != "" {
		c, err := catalog.Load(opts.Catalog)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid catalog", err)
		}
		extra = c
	}

	s, err := opts.openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	def := catalog.Default()
	result := InitResult{
		Database: opts.Database,
		Members:  len(def.Members),
		Books:    len(def.Books),
	}

	if extra != nil {
		if err := catalog.Apply(ctx, s.store, extra); err != nil {
			return WrapExitError(ExitCommandError, "failed to seed catalog", err)
		}
		result.Members += len(extra.Members)
		result.Books += len(extra.Books)
		s.logger.Info("catalog applied", "path", opts.Catalog,
			"members", len(extra.Members), "books", len(extra.Books))
	}

	text := fmt.Sprintf("Initialized %s (%d members, %d books seeded)\n",
		result.Database, result.Members, result.Books)
	return opts.formatter(cmd).Success(result, text)
}
