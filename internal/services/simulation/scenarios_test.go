package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/hindsight/internal/models"
)

func covidWindow() models.EventWindow {
	return models.EventWindow{
		Start:        models.NewDate(2020, 2, 19),
		End:          models.NewDate(2020, 8, 12),
		DecisionDate: models.NewDate(2020, 3, 23),
	}
}

// covidHistories is a three-point crash-and-recovery fixture: close at the
// window start, at the trough, and at the window end.
func covidHistories() map[string]*models.PriceHistory {
	dates := []models.Date{
		models.NewDate(2020, 2, 19),
		models.NewDate(2020, 3, 23),
		models.NewDate(2020, 8, 12),
	}
	mk := func(symbol string, closes [3]float64) *models.PriceHistory {
		h := &models.PriceHistory{
			Symbol:     symbol,
			RangeStart: dates[0],
			RangeEnd:   dates[2],
		}
		for i, d := range dates {
			h.Points = append(h.Points, models.PricePoint{Date: d, Close: closes[i]})
		}
		return h
	}
	return map[string]*models.PriceHistory{
		"AAPL":  mk("AAPL", [3]float64{75, 57, 113}),
		"MSFT":  mk("MSFT", [3]float64{157, 135, 209}),
		"GOOGL": mk("GOOGL", [3]float64{1368, 1056, 1506}),
	}
}

func covidPortfolio() *models.Portfolio {
	return &models.Portfolio{
		ID:   "covid-test",
		Name: "Tech Heavy",
		Assets: []models.Asset{
			{Symbol: "AAPL", Name: "Apple Inc.", Type: "equity", Allocation: 40},
			{Symbol: "MSFT", Name: "Microsoft Corporation", Type: "equity", Allocation: 30},
			{Symbol: "GOOGL", Name: "Alphabet Inc.", Type: "equity", Allocation: 30},
		},
	}
}

func TestBuildHoldSeriesCrashRecovery(t *testing.T) {
	series, err := BuildHoldSeries(covidPortfolio(), covidHistories(), covidWindow())
	require.NoError(t, err)
	require.Len(t, series, 3)

	assert.InDelta(t, 10000.0, series[0].Value, 0.01)
	// 4000*57/75 + 3000*135/157 + 3000*1056/1368
	assert.InDelta(t, 7935.41, series[1].Value, 0.01)
	// 4000*113/75 + 3000*209/157 + 3000*1506/1368
	assert.InDelta(t, 13322.93, series[2].Value, 0.01)
}

func TestRunScenariosCrashRecovery(t *testing.T) {
	hold, err := BuildHoldSeries(covidPortfolio(), covidHistories(), covidWindow())
	require.NoError(t, err)

	results, err := RunScenarios(hold)
	require.NoError(t, err)
	require.Len(t, results, 3)

	holdResult, sellResult, buyResult := results[0], results[1], results[2]

	assert.Equal(t, models.ScenarioHold, holdResult.Scenario)
	assert.InDelta(t, 33.23, holdResult.TotalReturnPct, 0.01)
	assert.InDelta(t, 20.65, holdResult.MaxDrawdownPct, 0.01)
	require.NotNil(t, holdResult.RecoveryDays)
	assert.Equal(t, 142, *holdResult.RecoveryDays)

	assert.Equal(t, models.ScenarioSellAtStart, sellResult.Scenario)
	assert.Equal(t, 0.0, sellResult.TotalReturnPct)
	assert.Equal(t, 0.0, sellResult.MaxDrawdownPct)
	assert.Nil(t, sellResult.RecoveryDays)

	assert.Equal(t, models.ScenarioBuyAtBottom, buyResult.Scenario)
	// 13322.93 / 7935.41 scaled onto the frozen $10,000
	assert.InDelta(t, 67.89, buyResult.TotalReturnPct, 0.01)
	assert.Equal(t, 0.0, buyResult.MaxDrawdownPct)

	best, err := SelectBest(results)
	require.NoError(t, err)
	assert.Equal(t, models.ScenarioBuyAtBottom, best)
}

func TestBuyAtBottomScalesFromTrough(t *testing.T) {
	// start 100, trough 50 at day 10, recovery to 120 by day 30
	start := models.NewDate(2020, 1, 1)
	hold := models.ValueSeries{
		{Date: start, Value: 100},
		{Date: start.AddDays(10), Value: 50},
		{Date: start.AddDays(30), Value: 120},
	}

	results, err := RunScenarios(hold)
	require.NoError(t, err)

	holdResult, buyResult := results[0], results[2]
	assert.InDelta(t, 50.0, holdResult.MaxDrawdownPct, 0.001)

	// cash until the trough, then the 50 -> 120 leg on the frozen 100
	require.Len(t, buyResult.Series, 3)
	assert.InDelta(t, 100.0, buyResult.Series[0].Value, 0.001)
	assert.InDelta(t, 100.0, buyResult.Series[1].Value, 0.001)
	assert.InDelta(t, 240.0, buyResult.Series[2].Value, 0.001)
	assert.InDelta(t, 140.0, buyResult.TotalReturnPct, 0.001)
}

func TestSellAtStartAlwaysFlat(t *testing.T) {
	start := models.NewDate(2020, 1, 1)
	hold := models.ValueSeries{
		{Date: start, Value: 8000},
		{Date: start.AddDays(1), Value: 2000},
		{Date: start.AddDays(2), Value: 16000},
	}

	results, err := RunScenarios(hold)
	require.NoError(t, err)

	sell := results[1]
	assert.Equal(t, 0.0, sell.TotalReturnPct)
	assert.Equal(t, 0.0, sell.MaxDrawdownPct)
	for _, p := range sell.Series {
		assert.Equal(t, 8000.0, p.Value)
	}
}

func TestBuildHoldSeriesMissingStartPrice(t *testing.T) {
	histories := covidHistories()
	// AAPL has no data until after the window start
	histories["AAPL"].Points = histories["AAPL"].Points[1:]

	_, err := BuildHoldSeries(covidPortfolio(), histories, covidWindow())
	assert.ErrorIs(t, err, models.ErrMissingPriceData)
}

func TestBuildHoldSeriesRejectsBadAllocations(t *testing.T) {
	p := covidPortfolio()
	p.Assets[0].Allocation = 30 // sums to 90

	_, err := BuildHoldSeries(p, covidHistories(), covidWindow())
	assert.ErrorIs(t, err, models.ErrAllocation)
}

func TestRunScenariosTooFewPoints(t *testing.T) {
	hold := models.ValueSeries{{Date: models.NewDate(2020, 1, 1), Value: 100}}

	_, err := RunScenarios(hold)
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}
