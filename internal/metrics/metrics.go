// Package metrics computes summary statistics over ordered value series.
// All functions are pure and deterministic: given a fully materialized
// series they perform no I/O and hold no state.
package metrics

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/bobmcallan/hindsight/internal/models"
)

// TotalReturn returns the percentage change from the first to the last value.
// Fails with ErrInsufficientData for fewer than 2 points or a zero first value.
func TotalReturn(s models.ValueSeries) (float64, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: total return needs at least 2 points, got %d", models.ErrInsufficientData, len(s))
	}
	first := s.First().Value
	if first == 0 {
		return 0, fmt.Errorf("%w: total return undefined for zero initial value", models.ErrInsufficientData)
	}
	return (s.Last().Value - first) / first * 100, nil
}

// MaxDrawdown returns the largest peak-to-trough decline as a percentage of
// the running peak. Zero for a monotonically non-decreasing series and for a
// single-point series. The result is always within [0, 100] for non-negative
// input values.
func MaxDrawdown(s models.ValueSeries) (float64, error) {
	if len(s) == 0 {
		return 0, fmt.Errorf("%w: max drawdown needs at least 1 point", models.ErrInsufficientData)
	}

	peak := s[0].Value
	maxDD := 0.0
	for _, p := range s {
		if p.Value > peak {
			peak = p.Value
		}
		if peak > 0 {
			if dd := (peak - p.Value) / peak * 100; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD, nil
}

// Volatility returns the population standard deviation of per-step simple
// returns, as a percentage. Fails with ErrInsufficientData for fewer than
// 2 points. A 2-point series yields exactly one return and therefore zero
// variance under the population convention, so 0%, not an error.
func Volatility(s models.ValueSeries) (float64, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: volatility needs at least 2 points, got %d", models.ErrInsufficientData, len(s))
	}

	returns := make([]float64, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		prev := s[i-1].Value
		if prev == 0 {
			return 0, fmt.Errorf("%w: volatility undefined across a zero value", models.ErrInsufficientData)
		}
		returns = append(returns, (s[i].Value-prev)/prev)
	}

	return stat.PopStdDev(returns, nil) * 100, nil
}

// RecoveryDays returns the number of calendar days from the trough date
// until the series first climbs back to its initial value, or nil if it
// never recovers within the series. The trough is the earliest date holding
// the minimum value.
func RecoveryDays(s models.ValueSeries) *int {
	if len(s) < 2 {
		return nil
	}

	initial := s.First().Value
	trough := s.TroughIndex()

	for i := trough + 1; i < len(s); i++ {
		if s[i].Value >= initial {
			days := s[i].Date.DaysSince(s[trough].Date)
			return &days
		}
	}
	return nil
}

// Summarize computes the dashboard metrics for a portfolio value series.
// Requires at least 2 points (the volatility bound is the binding one).
func Summarize(s models.ValueSeries) (*models.PortfolioMetrics, error) {
	totalReturn, err := TotalReturn(s)
	if err != nil {
		return nil, err
	}
	maxDD, err := MaxDrawdown(s)
	if err != nil {
		return nil, err
	}
	vol, err := Volatility(s)
	if err != nil {
		return nil, err
	}

	return &models.PortfolioMetrics{
		TotalReturnPct:    totalReturn,
		MaxDrawdownPct:    maxDD,
		VolatilityPct:     vol,
		InitialInvestment: s.First().Value,
		CurrentValue:      s.Last().Value,
	}, nil
}
