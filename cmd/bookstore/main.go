// Command bookstore records book sales in a SQLite ledger.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/bookstore/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil && !cli.IsReported(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
