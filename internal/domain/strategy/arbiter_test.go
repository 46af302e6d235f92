package strategy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tribebot/tribebot-go/internal/domain/allocation"
	"github.com/tribebot/tribebot-go/internal/domain/shared"
	"github.com/tribebot/tribebot-go/internal/domain/strategy"
)

func newArbiter() *strategy.Arbiter {
	classes := allocation.DefaultUnitClasses()
	return strategy.NewArbiter(
		allocation.NewAllocator(classes),
		allocation.NewAllocator(classes),
	)
}

func woodLoot(amount int) shared.ResourceSet {
	return shared.ResourceSet{shared.Wood: amount}
}

func TestArbiter_ChooseStrategy_RaidingWinsOnYield(t *testing.T) {
	// Arrange - raiding realizes 2000, gathering only 1000
	arbiter := newArbiter()
	available := map[string]int{"light": 100}
	raids := []allocation.Opportunity{
		{ID: "raid-1", PredictedLoot: woodLoot(2000), DurationHours: 1},
	}
	gathers := []allocation.Opportunity{
		{ID: "gather-1", PredictedLoot: woodLoot(1000), DurationHours: 1},
	}

	// Act
	chosen, plan := arbiter.ChooseStrategy(available, raids, gathers)

	// Assert
	assert.Equal(t, strategy.StrategyRaid, chosen)
	assert.Equal(t, 2000, plan.TotalRealizedLoot())
	require.Len(t, plan.Entries, 1)
	assert.Equal(t, "raid-1", plan.Entries[0].OpportunityID)
}

func TestArbiter_ChooseStrategy_GatheringNeedsStrictlyMore(t *testing.T) {
	// Arrange - equal yield on both sides
	arbiter := newArbiter()
	available := map[string]int{"light": 100}
	raids := []allocation.Opportunity{
		{ID: "raid-1", PredictedLoot: woodLoot(1500), DurationHours: 1},
	}
	gathers := []allocation.Opportunity{
		{ID: "gather-1", PredictedLoot: woodLoot(1500), DurationHours: 1},
	}

	// Act
	chosen, _ := arbiter.ChooseStrategy(available, raids, gathers)

	// Assert - ties resolve to raiding
	assert.Equal(t, strategy.StrategyRaid, chosen)
}

func TestArbiter_ChooseStrategy_GatheringWins(t *testing.T) {
	// Arrange
	arbiter := newArbiter()
	available := map[string]int{"light": 100}
	gathers := []allocation.Opportunity{
		{ID: "gather-1", PredictedLoot: woodLoot(3000), DurationHours: 2},
	}

	// Act
	chosen, plan := arbiter.ChooseStrategy(available, nil, gathers)

	// Assert
	assert.Equal(t, strategy.StrategyGather, chosen)
	assert.Equal(t, 3000, plan.TotalRealizedLoot())
}

func TestArbiter_ChooseStrategy_NothingAvailable(t *testing.T) {
	// Arrange
	arbiter := newArbiter()

	// Act
	chosen, plan := arbiter.ChooseStrategy(nil, nil, nil)

	// Assert - empty tie still lands on raiding with an empty plan
	assert.Equal(t, strategy.StrategyRaid, chosen)
	assert.Empty(t, plan.Entries)
}

func TestArbiter_UnifiedMarginalIncome(t *testing.T) {
	// Arrange - raids leave 800 uncovered per extra rider, gathers only 50
	arbiter := newArbiter()
	available := map[string]int{"light": 10}
	raids := []allocation.Opportunity{
		{ID: "raid-1", PredictedLoot: woodLoot(2000), DurationHours: 1},
	}
	gathers := []allocation.Opportunity{
		{ID: "gather-1", PredictedLoot: woodLoot(850), DurationHours: 1},
	}

	// Act
	incomes := arbiter.UnifiedMarginalIncome(available, raids, gathers)

	// Assert - per class, the better strategy's delta wins
	assert.Equal(t, 80, incomes["light"])
	assert.Equal(t, 100, incomes["knight"])
}
