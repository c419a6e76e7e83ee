package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL     string
	timeout     time.Duration
	databaseURL string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "HostLedger CLI tool",
		Long:          `A command line interface for operating the HostLedger accounting ledger.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the HostLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL for fx and migrate commands (default $DATABASE_URL)")

	rootCmd.AddCommand(
		consistencyCmd(),
		balanceCmd(),
		settleCmd(),
		fxCmd(),
		migrateCmd(),
	)

	return rootCmd
}
