package persistence

// RouteCooldownModel represents the route_cooldowns table. One row per
// directed route signature ("src->dst"); LastAttempt is a Unix timestamp so
// the schema stays identical across sqlite and postgres.
type RouteCooldownModel struct {
	Signature   string `gorm:"column:signature;primaryKey"`
	LastAttempt int64  `gorm:"column:last_attempt;not null"`
}

func (RouteCooldownModel) TableName() string {
	return "route_cooldowns"
}
