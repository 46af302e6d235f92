package config

import (
	"time"

	"github.com/tribebot/tribebot-go/internal/domain/logistics"
)

// Engine holds the planning engine knobs
type Engine struct {
	Logistics Logistics `mapstructure:"logistics"`
}

// Logistics mirrors the redistribution settings of the coordinator. Defaults
// keep it disabled and in dry-run until a deployment explicitly arms it.
type Logistics struct {
	Enabled bool   `mapstructure:"enabled"`
	Mode    string `mapstructure:"mode" validate:"required,oneof=requests_only balance_even"`

	NeedsMoreFraction float64 `mapstructure:"needs_more_fraction" validate:"gt=0,lte=1"`
	ReserveFraction   float64 `mapstructure:"reserve_fraction" validate:"gte=0,lt=1"`

	MaxShipmentsPerRun int `mapstructure:"max_shipments_per_run" validate:"min=0"`
	MinChunk           int `mapstructure:"min_chunk" validate:"min=0"`
	CooldownMinutes    int `mapstructure:"cooldown_minutes" validate:"min=0"`

	BlockWhenUnderAttack bool `mapstructure:"block_when_under_attack"`
	DryRun               bool `mapstructure:"dry_run"`

	MerchantCapacity int `mapstructure:"merchant_capacity" validate:"min=1"`
}

// ToSettings converts the config section into domain settings
func (l Logistics) ToSettings() logistics.Settings {
	return logistics.Settings{
		Enabled:              l.Enabled,
		Mode:                 logistics.Mode(l.Mode),
		NeedsMoreFraction:    l.NeedsMoreFraction,
		ReserveFraction:      l.ReserveFraction,
		MaxShipmentsPerRun:   l.MaxShipmentsPerRun,
		MinChunk:             l.MinChunk,
		CooldownMinutes:      l.CooldownMinutes,
		BlockWhenUnderAttack: l.BlockWhenUnderAttack,
		DryRun:               l.DryRun,
		MerchantCapacity:     l.MerchantCapacity,
	}
}

// Daemon holds daemon service configuration
type Daemon struct {
	// PIDFile enforces a single daemon instance
	PIDFile string `mapstructure:"pid_file"`

	// SnapshotPath is the document the external executor refreshes each tick
	SnapshotPath string `mapstructure:"snapshot_path" validate:"required"`

	// ActionsPath is where the planned action list is written for the executor
	ActionsPath string `mapstructure:"actions_path" validate:"required"`

	// TickInterval paces planning runs
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"required"`

	// MetricsAddress serves the Prometheus endpoint; empty disables it
	MetricsAddress string `mapstructure:"metrics_address"`
}
