package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/tribebot/tribebot-go/internal/adapters/persistence"
	"github.com/tribebot/tribebot-go/internal/infrastructure/config"
	"github.com/tribebot/tribebot-go/internal/infrastructure/database"
)

// NewLedgerCommand creates the ledger command with subcommands
func NewLedgerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the route cooldown ledger",
		Long: `Inspect and maintain the route cooldown ledger.

The ledger records when each directed route last had a shipment dispatched,
so the coordinator can skip routes still inside the cooldown window.

Examples:
  tribebot ledger show
  tribebot ledger prune --older-than 24h`,
	}

	cmd.AddCommand(newLedgerShowCommand())
	cmd.AddCommand(newLedgerPruneCommand())

	return cmd
}

// newLedgerShowCommand creates the ledger show subcommand
func newLedgerShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List recorded routes and their last attempt times",
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, cleanup, err := openLedger()
			if err != nil {
				return err
			}
			defer cleanup()

			entries, err := ledger.Entries()
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Ledger is empty")
				return nil
			}

			type row struct {
				signature string
				at        time.Time
			}
			rows := make([]row, 0, len(entries))
			for signature, at := range entries {
				rows = append(rows, row{signature, at})
			}
			sort.Slice(rows, func(i, j int) bool {
				if !rows[i].at.Equal(rows[j].at) {
					return rows[i].at.After(rows[j].at)
				}
				return rows[i].signature < rows[j].signature
			})

			fmt.Fprintf(cmd.OutOrStdout(), "%-40s %s\n", "ROUTE", "LAST ATTEMPT")
			for _, r := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%-40s %s\n", r.signature, r.at.Format(time.RFC3339))
			}
			return nil
		},
	}
}

// newLedgerPruneCommand creates the ledger prune subcommand
func newLedgerPruneCommand() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Drop ledger entries older than the given age",
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, cleanup, err := openLedger()
			if err != nil {
				return err
			}
			defer cleanup()

			cutoff := time.Now().Add(-olderThan)
			if err := ledger.PruneOlderThan(cutoff); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Pruned entries older than %s\n", olderThan)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 24*time.Hour, "Drop entries older than this duration")

	return cmd
}

// openLedger opens the configured database and returns the ledger repository
// plus a cleanup function closing the connection.
func openLedger() (*persistence.GormRouteLedger, func(), error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	cleanup := func() { _ = database.Close(db) }
	return persistence.NewGormRouteLedger(db), cleanup, nil
}
