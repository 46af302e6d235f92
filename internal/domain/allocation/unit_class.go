package allocation

// UnitClass is static reference data for one class of mobile carrying units
type UnitClass struct {
	ID string
	// CarryCapacity is the number of commodity units one unit can transport
	CarryCapacity int
	// SpeedMinutesPerField is the travel speed used to convert raid distances
	// into duration proxies
	SpeedMinutesPerField float64
}

// DefaultUnitClasses returns the standard unit catalog. Classes with zero
// carry capacity exist in garrisons but never participate in allocation.
func DefaultUnitClasses() []UnitClass {
	return []UnitClass{
		{ID: "spear", CarryCapacity: 25, SpeedMinutesPerField: 18},
		{ID: "sword", CarryCapacity: 15, SpeedMinutesPerField: 22},
		{ID: "axe", CarryCapacity: 10, SpeedMinutesPerField: 18},
		{ID: "archer", CarryCapacity: 10, SpeedMinutesPerField: 18},
		{ID: "spy", CarryCapacity: 0, SpeedMinutesPerField: 9},
		{ID: "light", CarryCapacity: 80, SpeedMinutesPerField: 10},
		{ID: "marcher", CarryCapacity: 50, SpeedMinutesPerField: 10},
		{ID: "heavy", CarryCapacity: 50, SpeedMinutesPerField: 11},
		{ID: "ram", CarryCapacity: 0, SpeedMinutesPerField: 30},
		{ID: "catapult", CarryCapacity: 0, SpeedMinutesPerField: 30},
		{ID: "knight", CarryCapacity: 100, SpeedMinutesPerField: 10},
		{ID: "snob", CarryCapacity: 0, SpeedMinutesPerField: 35},
	}
}

// ReferenceRaidSpeed is the minutes-per-field speed used to estimate raid
// travel time when scoring targets. Light cavalry is the usual raiding unit.
const ReferenceRaidSpeed = 10.0
