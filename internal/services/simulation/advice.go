package simulation

import (
	"fmt"

	"github.com/bobmcallan/hindsight/internal/models"
)

// SelectBest picks the winning scenario: highest total return, ties broken
// by lower max drawdown, remaining ties by input order. Fails with
// ErrEmptyInput when no results are given.
func SelectBest(results []models.ScenarioResult) (models.Scenario, error) {
	if len(results) == 0 {
		return "", fmt.Errorf("%w: no scenario results to rank", models.ErrEmptyInput)
	}

	best := 0
	for i := 1; i < len(results); i++ {
		if results[i].TotalReturnPct > results[best].TotalReturnPct {
			best = i
			continue
		}
		if results[i].TotalReturnPct == results[best].TotalReturnPct &&
			results[i].MaxDrawdownPct < results[best].MaxDrawdownPct {
			best = i
		}
	}
	return results[best].Scenario, nil
}

// fallbackAdvice is used when the AI advice cannot be generated
func fallbackAdvice(best models.Scenario, results []models.ScenarioResult) string {
	var bestResult *models.ScenarioResult
	for i := range results {
		if results[i].Scenario == best {
			bestResult = &results[i]
			break
		}
	}
	if bestResult == nil {
		return "The simulation completed, but no strategy comparison is available."
	}
	return fmt.Sprintf(
		"The %s strategy performed best through this event, returning %.2f%% with a maximum drawdown of %.2f%%. "+
			"Past events suggest that reacting to short-term volatility rarely beats a plan chosen in advance.",
		bestResult.Label, bestResult.TotalReturnPct, bestResult.MaxDrawdownPct,
	)
}
