package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/tribebot/tribebot-go/internal/domain/logistics"
)

// setViperDefaults registers every knob's default with viper. Defaults
// registered here lose to any value explicitly present in the config file or
// the environment, including zeros: a cooldown of 0 minutes, a shipment cap
// of 0 (uncapped) and a reserve fraction of 0.0 are all meaningful settings.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", "tribebot.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "tribebot")
	v.SetDefault("database.name", "tribebot")
	v.SetDefault("database.sslmode", "disable")

	// Logistics defaults mirror logistics.DefaultSettings.
	defaults := logistics.DefaultSettings()
	v.SetDefault("engine.logistics.mode", string(defaults.Mode))
	v.SetDefault("engine.logistics.needs_more_fraction", defaults.NeedsMoreFraction)
	v.SetDefault("engine.logistics.reserve_fraction", defaults.ReserveFraction)
	v.SetDefault("engine.logistics.max_shipments_per_run", defaults.MaxShipmentsPerRun)
	v.SetDefault("engine.logistics.min_chunk", defaults.MinChunk)
	v.SetDefault("engine.logistics.cooldown_minutes", defaults.CooldownMinutes)
	v.SetDefault("engine.logistics.merchant_capacity", defaults.MerchantCapacity)
	v.SetDefault("engine.logistics.block_when_under_attack", defaults.BlockWhenUnderAttack)
	v.SetDefault("engine.logistics.dry_run", defaults.DryRun)

	v.SetDefault("daemon.pid_file", "/tmp/tribebot-daemon.pid")
	v.SetDefault("daemon.snapshot_path", "snapshot.json")
	v.SetDefault("daemon.actions_path", "actions.json")
	v.SetDefault("daemon.tick_interval", 5*time.Minute)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output", "stdout")
}

// SetDefaults fills a bare Config struct with the same defaults. It backs the
// LoadConfigOrDefault fallback only and never runs on a loaded configuration;
// on a loaded config its unset-means-zero checks would clobber legitimate
// zero values, which is why LoadConfig relies on setViperDefaults instead.
func SetDefaults(cfg *Config) {
	// Database defaults: sqlite next to the binary keeps the ledger local.
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "tribebot.db"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "tribebot"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "tribebot"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	// Logistics defaults mirror logistics.DefaultSettings.
	defaults := logistics.DefaultSettings()
	if cfg.Engine.Logistics.Mode == "" {
		cfg.Engine.Logistics.Mode = string(defaults.Mode)
	}
	if cfg.Engine.Logistics.NeedsMoreFraction == 0 {
		cfg.Engine.Logistics.NeedsMoreFraction = defaults.NeedsMoreFraction
	}
	if cfg.Engine.Logistics.ReserveFraction == 0 {
		cfg.Engine.Logistics.ReserveFraction = defaults.ReserveFraction
	}
	if cfg.Engine.Logistics.MaxShipmentsPerRun == 0 {
		cfg.Engine.Logistics.MaxShipmentsPerRun = defaults.MaxShipmentsPerRun
	}
	if cfg.Engine.Logistics.MinChunk == 0 {
		cfg.Engine.Logistics.MinChunk = defaults.MinChunk
	}
	if cfg.Engine.Logistics.CooldownMinutes == 0 {
		cfg.Engine.Logistics.CooldownMinutes = defaults.CooldownMinutes
	}
	if cfg.Engine.Logistics.MerchantCapacity == 0 {
		cfg.Engine.Logistics.MerchantCapacity = defaults.MerchantCapacity
	}
	cfg.Engine.Logistics.BlockWhenUnderAttack = defaults.BlockWhenUnderAttack
	cfg.Engine.Logistics.DryRun = defaults.DryRun

	// Daemon defaults
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/tribebot-daemon.pid"
	}
	if cfg.Daemon.SnapshotPath == "" {
		cfg.Daemon.SnapshotPath = "snapshot.json"
	}
	if cfg.Daemon.ActionsPath == "" {
		cfg.Daemon.ActionsPath = "actions.json"
	}
	if cfg.Daemon.TickInterval == 0 {
		cfg.Daemon.TickInterval = 5 * time.Minute
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}
