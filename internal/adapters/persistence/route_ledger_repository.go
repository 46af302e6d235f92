package persistence

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tribebot/tribebot-go/internal/domain/logistics"
)

// GormRouteLedger implements logistics.RouteLedger using GORM
type GormRouteLedger struct {
	db *gorm.DB
}

// NewGormRouteLedger creates a new GORM route ledger repository
func NewGormRouteLedger(db *gorm.DB) *GormRouteLedger {
	return &GormRouteLedger{db: db}
}

// LastAttempt returns the recorded attempt time for a route, if any
func (r *GormRouteLedger) LastAttempt(route logistics.Route) (time.Time, bool) {
	var model RouteCooldownModel
	result := r.db.Where("signature = ?", route.Signature()).First(&model)
	if result.Error != nil {
		return time.Time{}, false
	}
	return time.Unix(model.LastAttempt, 0).UTC(), true
}

// Record upserts the attempt time for the given routes
func (r *GormRouteLedger) Record(routes []logistics.Route, at time.Time) error {
	if len(routes) == 0 {
		return nil
	}

	models := make([]RouteCooldownModel, 0, len(routes))
	for _, route := range routes {
		models = append(models, RouteCooldownModel{
			Signature:   route.Signature(),
			LastAttempt: at.Unix(),
		})
	}

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "signature"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_attempt"}),
	}).Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to record route attempts: %w", result.Error)
	}
	return nil
}

// PruneOlderThan drops entries recorded before the cutoff
func (r *GormRouteLedger) PruneOlderThan(cutoff time.Time) error {
	result := r.db.Where("last_attempt < ?", cutoff.Unix()).Delete(&RouteCooldownModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to prune route ledger: %w", result.Error)
	}
	return nil
}

// Entries returns all recorded routes with their attempt times, newest first.
// Used by the CLI to display the ledger.
func (r *GormRouteLedger) Entries() (map[string]time.Time, error) {
	var models []RouteCooldownModel
	if err := r.db.Order("last_attempt DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load route ledger: %w", err)
	}

	entries := make(map[string]time.Time, len(models))
	for _, model := range models {
		entries[model.Signature] = time.Unix(model.LastAttempt, 0).UTC()
	}
	return entries, nil
}
