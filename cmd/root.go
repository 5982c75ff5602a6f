// Package cmd defines and implements the CLI commands for the cfaxdlr
// executable.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cfaxdlr",
		Short: "Resolve Carfax report URLs for a CSV of vehicle listings.",
		Long: `cfaxdlr takes a CSV export of vehicle listings, resolves each eBrochure
link to its Carfax report URL, and optionally downloads the reports into a
zip archive keyed by VIN. The enriched CSV, the archive, and a per-record
result log are written next to the input.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (defaults plus CFAXDLR_* env vars when omitted)")
	cmd.AddCommand(newRunCmd())
	return cmd
}

// Execute is the main entry point. SIGINT/SIGTERM cancel in-flight fetches;
// records completed before the signal are still written out.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
