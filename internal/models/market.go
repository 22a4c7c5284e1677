package models

import (
	"sort"
	"time"
)

// PricePoint represents a single trading day's price data
type PricePoint struct {
	Date   Date    `json:"date"`
	Open   float64 `json:"open,omitempty"`
	High   float64 `json:"high,omitempty"`
	Low    float64 `json:"low,omitempty"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume,omitempty"`
}

// PriceHistory holds the cached daily price series for a symbol.
// Points are ascending by date with no duplicate dates.
type PriceHistory struct {
	Symbol      string       `json:"symbol"`
	Points      []PricePoint `json:"points"`
	RangeStart  Date         `json:"range_start"`
	RangeEnd    Date         `json:"range_end"`
	LastUpdated time.Time    `json:"last_updated"`
}

// SortPoints orders the points ascending by date.
func (h *PriceHistory) SortPoints() {
	sort.Slice(h.Points, func(i, j int) bool {
		return h.Points[i].Date.Before(h.Points[j].Date)
	})
}

// CloseOnOrBefore returns the latest close at or before date, for bridging
// holidays and weekends. The second return is false when no price exists at
// or before the date.
func (h *PriceHistory) CloseOnOrBefore(date Date) (float64, bool) {
	// Points are ascending: binary search for the first point after date,
	// then step back one.
	idx := sort.Search(len(h.Points), func(i int) bool {
		return h.Points[i].Date.After(date)
	})
	if idx == 0 {
		return 0, false
	}
	return h.Points[idx-1].Close, true
}

// Slice returns the points within [start, end] inclusive.
func (h *PriceHistory) Slice(start, end Date) []PricePoint {
	out := make([]PricePoint, 0, len(h.Points))
	for _, p := range h.Points {
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Covers reports whether the cached range includes [start, end].
func (h *PriceHistory) Covers(start, end Date) bool {
	if h.RangeStart.IsZero() || h.RangeEnd.IsZero() {
		return false
	}
	return !h.RangeStart.After(start) && !h.RangeEnd.Before(end)
}

// ValuePoint is a dated portfolio dollar value
type ValuePoint struct {
	Date  Date    `json:"date"`
	Value float64 `json:"value"`
}

// ValueSeries is an ordered sequence of dated values, ascending by date.
// It is the common currency between the metrics functions and the scenario
// simulator; portfolio-level and per-scenario series use the same shape.
type ValueSeries []ValuePoint

// First returns the first value. Callers must check Len first.
func (s ValueSeries) First() ValuePoint { return s[0] }

// Last returns the last value. Callers must check Len first.
func (s ValueSeries) Last() ValuePoint { return s[len(s)-1] }

// Values returns the raw value column.
func (s ValueSeries) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// TroughIndex returns the index of the minimum value; the earliest such
// index when several dates share the minimum. Returns -1 for an empty series.
func (s ValueSeries) TroughIndex() int {
	if len(s) == 0 {
		return -1
	}
	trough := 0
	for i := 1; i < len(s); i++ {
		if s[i].Value < s[trough].Value {
			trough = i
		}
	}
	return trough
}

// PortfolioMetrics summarizes a portfolio value series. Derived transiently;
// never persisted.
type PortfolioMetrics struct {
	TotalReturnPct    float64 `json:"total_return_pct"`
	MaxDrawdownPct    float64 `json:"max_drawdown_pct"`
	VolatilityPct     float64 `json:"volatility_pct"`
	InitialInvestment float64 `json:"initial_investment"`
	CurrentValue      float64 `json:"current_value"`
}

// AssetInfo describes a searchable asset in the static catalog
type AssetInfo struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Type   string `json:"type"`
}
