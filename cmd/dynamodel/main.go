// Command dynamodel compiles expression DSL documents, validates documents
// against YAML schemas and bootstraps model tables.
//
// Usage: dynamodel <command> [options]
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
