package simulation

import (
	"fmt"
	"sort"

	"github.com/bobmcallan/hindsight/internal/metrics"
	"github.com/bobmcallan/hindsight/internal/models"
)

// BuildHoldSeries computes the portfolio's dollar value on every trading
// date inside the event window. The date axis is the sorted union of the
// assets' trading dates within [Start, End]. Each asset's position is sized
// from its close at or before the window start; gaps on the shared axis are
// bridged with the latest prior close.
func BuildHoldSeries(p *models.Portfolio, histories map[string]*models.PriceHistory, w models.EventWindow) (models.ValueSeries, error) {
	if err := models.ValidateAssets(p.Assets); err != nil {
		return nil, err
	}

	dates := unionDates(histories, w.Start, w.End)
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: no trading dates in [%s, %s]", models.ErrMissingPriceData, w.Start, w.End)
	}

	investment := p.Investment()

	shares := make(map[string]float64, len(p.Assets))
	for _, a := range p.Assets {
		h, ok := histories[a.Symbol]
		if !ok {
			return nil, fmt.Errorf("%w: no history for %s", models.ErrMissingPriceData, a.Symbol)
		}
		startClose, ok := h.CloseOnOrBefore(w.Start)
		if !ok || startClose <= 0 {
			return nil, fmt.Errorf("%w: no price for %s at or before %s", models.ErrMissingPriceData, a.Symbol, w.Start)
		}
		dollars, err := a.DollarAmount(investment)
		if err != nil {
			return nil, err
		}
		shares[a.Symbol] = dollars / startClose
	}

	series := make(models.ValueSeries, 0, len(dates))
	for _, date := range dates {
		total := 0.0
		for _, a := range p.Assets {
			close, ok := histories[a.Symbol].CloseOnOrBefore(date)
			if !ok {
				return nil, fmt.Errorf("%w: no price for %s at or before %s", models.ErrMissingPriceData, a.Symbol, date)
			}
			total += shares[a.Symbol] * close
		}
		series = append(series, models.ValuePoint{Date: date, Value: total})
	}

	return series, nil
}

// RunScenarios derives all three strategy outcomes from a hold series.
// Sell-at-start and buy-at-bottom are pure transformations of the hold
// trajectory; no additional price data is needed.
func RunScenarios(hold models.ValueSeries) ([]models.ScenarioResult, error) {
	if len(hold) < 2 {
		return nil, fmt.Errorf("%w: scenario simulation needs at least 2 points, got %d", models.ErrInsufficientData, len(hold))
	}

	results := make([]models.ScenarioResult, 0, 3)

	holdResult, err := scenarioResult(models.ScenarioHold, hold)
	if err != nil {
		return nil, err
	}
	results = append(results, holdResult)

	sellResult, err := scenarioResult(models.ScenarioSellAtStart, sellAtStartSeries(hold))
	if err != nil {
		return nil, err
	}
	results = append(results, sellResult)

	buyResult, err := scenarioResult(models.ScenarioBuyAtBottom, buyAtBottomSeries(hold))
	if err != nil {
		return nil, err
	}
	results = append(results, buyResult)

	return results, nil
}

// scenarioResult wraps a series with its metrics. Recovery days are only
// meaningful after a drawdown; a flat or non-decreasing series reports none.
func scenarioResult(scenario models.Scenario, series models.ValueSeries) (models.ScenarioResult, error) {
	totalReturn, err := metrics.TotalReturn(series)
	if err != nil {
		return models.ScenarioResult{}, err
	}
	maxDD, err := metrics.MaxDrawdown(series)
	if err != nil {
		return models.ScenarioResult{}, err
	}

	result := models.ScenarioResult{
		Scenario:       scenario,
		Label:          scenario.Label(),
		Series:         series,
		TotalReturnPct: totalReturn,
		MaxDrawdownPct: maxDD,
	}
	if maxDD > 0 {
		result.RecoveryDays = metrics.RecoveryDays(series)
	}
	return result, nil
}

// sellAtStartSeries holds cash from day one: flat at the starting value.
func sellAtStartSeries(hold models.ValueSeries) models.ValueSeries {
	start := hold.First().Value
	out := make(models.ValueSeries, len(hold))
	for i, p := range hold {
		out[i] = models.ValuePoint{Date: p.Date, Value: start}
	}
	return out
}

// buyAtBottomSeries holds cash until the trough, then deploys the full
// starting amount and rides the hold trajectory, rescaled so the trough
// equals the starting value. The trough is the global minimum, so the
// post-trough segment never dips below the starting value.
func buyAtBottomSeries(hold models.ValueSeries) models.ValueSeries {
	start := hold.First().Value
	trough := hold.TroughIndex()
	troughValue := hold[trough].Value

	out := make(models.ValueSeries, len(hold))
	for i, p := range hold {
		if i <= trough || troughValue <= 0 {
			out[i] = models.ValuePoint{Date: p.Date, Value: start}
			continue
		}
		out[i] = models.ValuePoint{Date: p.Date, Value: p.Value / troughValue * start}
	}
	return out
}

// unionDates returns the sorted union of the histories' trading dates
// within [start, end].
func unionDates(histories map[string]*models.PriceHistory, start, end models.Date) []models.Date {
	seen := make(map[string]models.Date)
	for _, h := range histories {
		for _, p := range h.Slice(start, end) {
			seen[p.Date.String()] = p.Date
		}
	}

	dates := make([]models.Date, 0, len(seen))
	for _, d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
