// Command sqldom compiles schema documents to DDL, extracts schemas from
// live servers and builds queries interactively.
//
// Configuration is read from --config and SQLDOM_* environment variables,
// e.g.
//
//	SQLDOM_PROVIDER=postgresql SQLDOM_DSN=postgres://localhost/shop sqldom extract
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
