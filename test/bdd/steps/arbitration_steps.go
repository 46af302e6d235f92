package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/tribebot/tribebot-go/internal/domain/allocation"
	"github.com/tribebot/tribebot-go/internal/domain/shared"
	"github.com/tribebot/tribebot-go/internal/domain/strategy"
)

// arbitrationContext holds state for strategy arbitration scenarios
type arbitrationContext struct {
	available map[string]int
	raids     []allocation.Opportunity
	gathers   []allocation.Opportunity
	chosen    strategy.Name
	plan      allocation.Plan
}

func (ac *arbitrationContext) reset() {
	ac.available = make(map[string]int)
	ac.raids = nil
	ac.gathers = nil
	ac.chosen = ""
	ac.plan = allocation.Plan{}
}

func InitializeArbitrationScenario(ctx *godog.ScenarioContext) {
	ac := &arbitrationContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		ac.reset()
		return ctx, nil
	})

	ctx.Step(`^the shared pool has (\d+) "([^"]*)" units$`, ac.theSharedPoolHasUnits)
	ctx.Step(`^a raid target "([^"]*)" promising (\d+) loot reachable in (\d+) hours?$`, ac.aRaidTargetPromising)
	ctx.Step(`^a gather slot "([^"]*)" promising (\d+) loot taking (\d+) hours?$`, ac.aGatherSlotPromising)

	ctx.Step(`^the strategies are arbitrated$`, ac.theStrategiesAreArbitrated)

	ctx.Step(`^the "(raiding|gathering)" strategy should win$`, ac.theStrategyShouldWin)
	ctx.Step(`^the plan should realize (\d+) loot$`, ac.thePlanShouldRealizeLoot)
}

func (ac *arbitrationContext) theSharedPoolHasUnits(count int, class string) error {
	ac.available[class] += count
	return nil
}

func (ac *arbitrationContext) aRaidTargetPromising(id string, loot, hours int) error {
	ac.raids = append(ac.raids, allocation.Opportunity{
		ID:            id,
		PredictedLoot: shared.ResourceSet{shared.Wood: loot},
		DurationHours: float64(hours),
	})
	return nil
}

func (ac *arbitrationContext) aGatherSlotPromising(id string, loot, hours int) error {
	ac.gathers = append(ac.gathers, allocation.Opportunity{
		ID:            id,
		PredictedLoot: shared.ResourceSet{shared.Wood: loot},
		DurationHours: float64(hours),
	})
	return nil
}

func (ac *arbitrationContext) theStrategiesAreArbitrated() error {
	classes := allocation.DefaultUnitClasses()
	arbiter := strategy.NewArbiter(
		allocation.NewAllocator(classes),
		allocation.NewAllocator(classes),
	)
	ac.chosen, ac.plan = arbiter.ChooseStrategy(ac.available, ac.raids, ac.gathers)
	return nil
}

func (ac *arbitrationContext) theStrategyShouldWin(name string) error {
	if string(ac.chosen) != name {
		return fmt.Errorf("expected %s to win, got %s", name, ac.chosen)
	}
	return nil
}

func (ac *arbitrationContext) thePlanShouldRealizeLoot(expected int) error {
	if got := ac.plan.TotalRealizedLoot(); got != expected {
		return fmt.Errorf("expected realized loot %d, got %d", expected, got)
	}
	return nil
}
