// Package main provides the entry point for the spendwise CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"spendwise/cmd/aggregate"
	"spendwise/cmd/budget"
	"spendwise/cmd/export"
	"spendwise/cmd/ingest"
	"spendwise/cmd/periods"
	"spendwise/cmd/reports"
	"spendwise/cmd/root"
	"spendwise/cmd/rules"
	"spendwise/cmd/trend"
	"spendwise/cmd/vocab"
)

func init() {
	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(reports.Cmd)
	root.Cmd.AddCommand(periods.Cmd)
	root.Cmd.AddCommand(aggregate.Cmd)
	root.Cmd.AddCommand(trend.Cmd)
	root.Cmd.AddCommand(budget.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(vocab.Cmd)
}

func main() {
	// Ctrl-C cancels the context; long classifications stop at the next
	// chunk boundary with everything so far already saved.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
