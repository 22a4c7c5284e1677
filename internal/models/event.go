package models

import "fmt"

// EventWindow is the validated date range for a historical market event,
// produced once per analysis request and immutable thereafter.
// DecisionDate is the calendar midpoint of [Start, End].
type EventWindow struct {
	Start        Date `json:"start_date"`
	End          Date `json:"end_date"`
	DecisionDate Date `json:"decision_date"`
}

// Validate checks window ordering: Start < End and DecisionDate within [Start, End].
func (w EventWindow) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return fmt.Errorf("%w: missing start or end date", ErrInvalidWindow)
	}
	if !w.End.After(w.Start) {
		return fmt.Errorf("%w: end date %s not after start date %s", ErrInvalidWindow, w.End, w.Start)
	}
	if w.DecisionDate.Before(w.Start) || w.DecisionDate.After(w.End) {
		return fmt.Errorf("%w: decision date %s outside [%s, %s]", ErrInvalidWindow, w.DecisionDate, w.Start, w.End)
	}
	return nil
}

// EventClassification is the untrusted-but-well-formed response from the
// external event classifier. Dates are validated before use.
type EventClassification struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// EventAnalysis is the full analysis of a market event's impact on the
// benchmark index, returned by POST /api/events/analyze.
type EventAnalysis struct {
	Event          string      `json:"event"`
	Narrative      string      `json:"analysis"`
	RecoveryStatus string      `json:"recovery_status"`
	PercentChange  *float64    `json:"percent_change,omitempty"`
	TimePeriod     EventWindow `json:"time_period"`
}

// MarketImpact summarizes how an event moved the benchmark index: the
// pre-event level, the trough, and whether/when the index recovered.
type MarketImpact struct {
	PreEventValue float64  `json:"pre_event_value"`
	LowestValue   float64  `json:"lowest_value"`
	LowestDate    Date     `json:"lowest_date"`
	CurrentValue  float64  `json:"current_value"`
	PercentChange float64  `json:"percent_change"`
	Recovered     bool     `json:"recovered"`
	RecoveryDays  *int     `json:"recovery_days,omitempty"`
}
