package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/tribebot/tribebot-go/internal/adapters/persistence"
	"github.com/tribebot/tribebot-go/internal/application/planner"
	"github.com/tribebot/tribebot-go/internal/domain/allocation"
	"github.com/tribebot/tribebot-go/internal/domain/logistics"
	"github.com/tribebot/tribebot-go/internal/domain/shared"
	"github.com/tribebot/tribebot-go/internal/domain/strategy"
	"github.com/tribebot/tribebot-go/internal/infrastructure/config"
	"github.com/tribebot/tribebot-go/internal/infrastructure/database"
)

// NewPlanCommand creates the plan command
func NewPlanCommand() *cobra.Command {
	var (
		snapshotPath string
		outPath      string
		commit       bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run one planning tick against a snapshot",
		Long: `Run one planning tick against a world snapshot and print the planned
actions as JSON.

By default the run is a dry run: shipment routes are not written to the
cooldown ledger. Pass --commit to record planned shipment routes, which
is what the daemon does after a successful dispatch.

Examples:
  tribebot plan --snapshot snapshot.json
  tribebot plan --snapshot snapshot.json --out actions.json --commit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			snapshot, err := readSnapshot(snapshotPath)
			if err != nil {
				return err
			}

			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open ledger database: %w", err)
			}
			defer database.Close(db)

			service, err := buildPlannerService(cfg, persistence.NewGormRouteLedger(db))
			if err != nil {
				return err
			}

			result, err := service.PlanTick(context.Background(), snapshot)
			if err != nil {
				return err
			}

			if commit {
				var shipments []logistics.Shipment
				for _, action := range result.Actions {
					if shipment, ok := action.ToShipment(); ok {
						shipments = append(shipments, shipment)
					}
				}
				if err := service.Coordinator().RecordDispatched(shipments); err != nil {
					return fmt.Errorf("failed to record dispatched routes: %w", err)
				}
			}

			return writeResult(cmd, result, outPath)
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Path to the snapshot JSON document (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "Write actions to this file instead of stdout")
	cmd.Flags().BoolVar(&commit, "commit", false, "Record planned shipment routes in the cooldown ledger")
	_ = cmd.MarkFlagRequired("snapshot")

	return cmd
}

// buildPlannerService wires the domain services from configuration
func buildPlannerService(cfg *config.Config, ledger logistics.RouteLedger) (*planner.Service, error) {
	classes := allocation.DefaultUnitClasses()
	arbiter := strategy.NewArbiter(
		allocation.NewAllocator(classes),
		allocation.NewAllocator(classes),
	)

	coordinator, err := logistics.NewCoordinator(cfg.Engine.Logistics.ToSettings(), ledger, shared.NewRealClock())
	if err != nil {
		return nil, fmt.Errorf("invalid logistics settings: %w", err)
	}

	var logger *log.Logger
	if verbose {
		logger = log.New(os.Stderr, "planner: ", log.LstdFlags)
	}

	return planner.NewService(arbiter, coordinator, classes, logger, nil)
}

func readSnapshot(path string) (*planner.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snapshot planner.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &snapshot, nil
}

func writeResult(cmd *cobra.Command, result *planner.TickResult, outPath string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode actions: %w", err)
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, append(data, '\n'), 0644); err != nil {
			return fmt.Errorf("failed to write actions: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d actions to %s (strategy: %s)\n",
			len(result.Actions), outPath, result.Strategy)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
