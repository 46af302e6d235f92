package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tribebot",
		Short: "TribeBot CLI - Plan resource allocation and logistics from snapshots",
		Long: `TribeBot CLI plans economy actions for a tribal-wars style game account.
It reads a world snapshot document and emits the actions an executor should
dispatch: unit allocations, merchant shipments and premium trades.

Examples:
  tribebot plan --snapshot snapshot.json
  tribebot plan --snapshot snapshot.json --out actions.json
  tribebot ledger show
  tribebot ledger prune --older-than 24h
  tribebot config show`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	// Add command groups
	rootCmd.AddCommand(NewPlanCommand())
	rootCmd.AddCommand(NewLedgerCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
