package logistics

import (
	"time"

	"github.com/tribebot/tribebot-go/internal/domain/shared"
)

// Mode selects how the coordinator builds its demand list
type Mode string

const (
	// ModeRequestsOnly only relieves explicitly registered demand requests
	ModeRequestsOnly Mode = "requests_only"
	// ModeBalanceEven additionally tops up nodes sitting below the
	// needs-more threshold
	ModeBalanceEven Mode = "balance_even"
)

// Settings are the redistribution knobs. Zero value is not usable; start from
// DefaultSettings and override.
type Settings struct {
	Enabled bool
	Mode    Mode

	// NeedsMoreFraction caps how full a destination may be planned
	NeedsMoreFraction float64
	// ReserveFraction is the share of storage a donor withholds from export
	ReserveFraction float64

	MaxShipmentsPerRun int
	// MinChunk is the granularity of every planned amount
	MinChunk        int
	CooldownMinutes int

	BlockWhenUnderAttack bool
	DryRun               bool

	// MerchantCapacity is the commodity amount one merchant transports
	MerchantCapacity int
}

// DefaultSettings returns the documented defaults. The coordinator ships
// nothing until explicitly enabled and stays in dry-run until explicitly
// armed.
func DefaultSettings() Settings {
	return Settings{
		Enabled:              false,
		Mode:                 ModeRequestsOnly,
		NeedsMoreFraction:    0.85,
		ReserveFraction:      0.25,
		MaxShipmentsPerRun:   25,
		MinChunk:             1000,
		CooldownMinutes:      10,
		BlockWhenUnderAttack: true,
		DryRun:               true,
		MerchantCapacity:     1000,
	}
}

// Cooldown returns the route cooldown window as a duration
func (s Settings) Cooldown() time.Duration {
	return time.Duration(s.CooldownMinutes) * time.Minute
}

// Validate rejects malformed settings. The engine refuses to run with invalid
// settings rather than silently substituting defaults.
func (s Settings) Validate() error {
	if s.Mode != ModeRequestsOnly && s.Mode != ModeBalanceEven {
		return shared.NewValidationError("mode", "must be requests_only or balance_even")
	}
	if s.NeedsMoreFraction <= 0 || s.NeedsMoreFraction > 1 {
		return shared.NewValidationError("needs_more_fraction", "must be in (0, 1]")
	}
	if s.ReserveFraction < 0 || s.ReserveFraction >= 1 {
		return shared.NewValidationError("reserve_fraction", "must be in [0, 1)")
	}
	if s.MaxShipmentsPerRun < 0 {
		return shared.NewValidationError("max_shipments_per_run", "cannot be negative")
	}
	if s.MinChunk < 0 {
		return shared.NewValidationError("min_chunk", "cannot be negative")
	}
	if s.CooldownMinutes < 0 {
		return shared.NewValidationError("cooldown_minutes", "cannot be negative")
	}
	if s.MerchantCapacity <= 0 {
		return shared.NewValidationError("merchant_capacity", "must be positive")
	}
	return nil
}
