package models

// Scenario identifies one of the three canned event strategies
type Scenario string

const (
	// ScenarioHold keeps the portfolio untouched through the event window.
	ScenarioHold Scenario = "hold"
	// ScenarioSellAtStart liquidates at the window start and holds cash.
	ScenarioSellAtStart Scenario = "sell_at_start"
	// ScenarioBuyAtBottom holds cash until the trough, then deploys the full
	// amount and rides the recovery.
	ScenarioBuyAtBottom Scenario = "buy_at_bottom"
)

// Label returns the human-readable scenario name used in responses and prompts.
func (s Scenario) Label() string {
	switch s {
	case ScenarioHold:
		return "Hold"
	case ScenarioSellAtStart:
		return "Sell at Start"
	case ScenarioBuyAtBottom:
		return "Buy at Bottom"
	default:
		return string(s)
	}
}

// ScenarioResult is the outcome of one strategy across an event window.
// Computed fresh per simulation request; never persisted.
type ScenarioResult struct {
	Scenario       Scenario    `json:"scenario"`
	Label          string      `json:"label"`
	Series         ValueSeries `json:"performance"`
	TotalReturnPct float64     `json:"total_return_pct"`
	MaxDrawdownPct float64     `json:"max_drawdown_pct"`
	RecoveryDays   *int        `json:"recovery_days,omitempty"`
}

// AssetPerformance carries an individual asset's raw prices across the
// window, for per-asset chart lines in the UI.
type AssetPerformance struct {
	Name       string       `json:"name"`
	Allocation float64      `json:"allocation"`
	Prices     []PricePoint `json:"performance"`
}

// Advice pairs the computed best scenario with an AI-generated rationale.
// BestScenario is always the pure selection result; Text degrades to a
// static message when the AI client is unavailable.
type Advice struct {
	BestScenario Scenario `json:"best_scenario"`
	Text         string   `json:"text"`
}

// SimulationResult is the full response of a portfolio event simulation
type SimulationResult struct {
	Event            string                      `json:"event"`
	PortfolioID      string                      `json:"portfolio_id"`
	PortfolioName    string                      `json:"portfolio_name"`
	TimePeriod       EventWindow                 `json:"time_period"`
	Scenarios        []ScenarioResult            `json:"simulation_results"`
	AssetPerformance map[string]AssetPerformance `json:"asset_performance"`
	Advice           Advice                      `json:"advice"`
}
