package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tribebot/tribebot-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage TribeBot configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (TB_* prefix)
2. Config file (config.yaml)
3. Default values

Examples:
  tribebot config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Warning: failed to load config: %v\n", err)
				fmt.Fprintln(cmd.OutOrStdout(), "Using default configuration.")
				cfg = config.LoadConfigOrDefault(configPath)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "TribeBot Configuration")
			fmt.Fprintln(out, "======================")

			fmt.Fprintln(out, "Database:")
			fmt.Fprintf(out, "  Type: %s\n", cfg.Database.Type)
			if cfg.Database.Type == "sqlite" {
				fmt.Fprintf(out, "  Path: %s\n", cfg.Database.Path)
			} else {
				fmt.Fprintf(out, "  Host: %s:%d\n", cfg.Database.Host, cfg.Database.Port)
				fmt.Fprintf(out, "  Name: %s\n", cfg.Database.Name)
			}

			l := cfg.Engine.Logistics
			fmt.Fprintln(out, "Logistics:")
			fmt.Fprintf(out, "  Enabled: %t\n", l.Enabled)
			fmt.Fprintf(out, "  Mode: %s\n", l.Mode)
			fmt.Fprintf(out, "  Needs-more fraction: %.2f\n", l.NeedsMoreFraction)
			fmt.Fprintf(out, "  Reserve fraction: %.2f\n", l.ReserveFraction)
			fmt.Fprintf(out, "  Max shipments per run: %d\n", l.MaxShipmentsPerRun)
			fmt.Fprintf(out, "  Min chunk: %d\n", l.MinChunk)
			fmt.Fprintf(out, "  Cooldown minutes: %d\n", l.CooldownMinutes)
			fmt.Fprintf(out, "  Block when under attack: %t\n", l.BlockWhenUnderAttack)
			fmt.Fprintf(out, "  Dry run: %t\n", l.DryRun)
			fmt.Fprintf(out, "  Merchant capacity: %d\n", l.MerchantCapacity)

			fmt.Fprintln(out, "Daemon:")
			fmt.Fprintf(out, "  PID file: %s\n", cfg.Daemon.PIDFile)
			fmt.Fprintf(out, "  Snapshot path: %s\n", cfg.Daemon.SnapshotPath)
			fmt.Fprintf(out, "  Actions path: %s\n", cfg.Daemon.ActionsPath)
			fmt.Fprintf(out, "  Tick interval: %s\n", cfg.Daemon.TickInterval)
			if cfg.Daemon.MetricsAddress != "" {
				fmt.Fprintf(out, "  Metrics address: %s\n", cfg.Daemon.MetricsAddress)
			}

			fmt.Fprintln(out, "Logging:")
			fmt.Fprintf(out, "  Level: %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Output: %s\n", cfg.Logging.Output)

			return nil
		},
	}
}
