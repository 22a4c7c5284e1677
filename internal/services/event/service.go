// Package event resolves free-text event descriptions into validated date
// windows and analyzes their market impact against the benchmark index.
package event

import (
	"context"
	"fmt"

	"github.com/bobmcallan/hindsight/internal/common"
	"github.com/bobmcallan/hindsight/internal/interfaces"
	"github.com/bobmcallan/hindsight/internal/metrics"
	"github.com/bobmcallan/hindsight/internal/models"
)

// PaddingMonths is the calendar padding applied on each side of an event
// window when fetching price data, so pre-event baselines and post-event
// recovery are visible.
const PaddingMonths = 3

// Service implements the EventService interface
type Service struct {
	gemini interfaces.GeminiClient
	market interfaces.MarketService
	logger *common.Logger
}

// NewService creates a new event service
func NewService(gemini interfaces.GeminiClient, market interfaces.MarketService, logger *common.Logger) *Service {
	return &Service{
		gemini: gemini,
		market: market,
		logger: logger,
	}
}

// ResolveWindow classifies the event text and derives a validated EventWindow.
// The decision date is the calendar midpoint of the window, rounded down.
func (s *Service) ResolveWindow(ctx context.Context, event string) (*models.EventWindow, error) {
	if event == "" {
		return nil, fmt.Errorf("%w: event description is required", models.ErrInvalidInput)
	}
	if s.gemini == nil {
		return nil, fmt.Errorf("%w: event classification requires a configured AI client", models.ErrInvalidInput)
	}

	classification, err := s.gemini.ClassifyEvent(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to classify event: %w", err)
	}

	start, err := models.ParseDate(classification.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: classifier start date: %v", models.ErrInvalidWindow, err)
	}
	end, err := models.ParseDate(classification.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: classifier end date: %v", models.ErrInvalidWindow, err)
	}

	window := models.EventWindow{
		Start:        start,
		End:          end,
		DecisionDate: start.Midpoint(end),
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("event", event).
		Str("start", window.Start.String()).
		Str("end", window.End.String()).
		Msg("Resolved event window")

	return &window, nil
}

// PaddedRange returns the data fetch range for a window: three calendar
// months before the start through three after the end.
func PaddedRange(w models.EventWindow) (models.Date, models.Date) {
	return w.Start.AddMonths(-PaddingMonths), w.End.AddMonths(PaddingMonths)
}

// AnalyzeEvent resolves the window and produces narrative, percent change,
// and recovery status against the benchmark index.
func (s *Service) AnalyzeEvent(ctx context.Context, event string) (*models.EventAnalysis, error) {
	window, err := s.ResolveWindow(ctx, event)
	if err != nil {
		return nil, err
	}

	start, end := PaddedRange(*window)
	points, err := s.market.GetIndexHistory(ctx, "", start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load benchmark history: %w", err)
	}

	impact, err := ComputeImpact(points, *window)
	if err != nil {
		return nil, err
	}

	analysis := &models.EventAnalysis{
		Event:          event,
		RecoveryStatus: recoveryStatus(impact),
		PercentChange:  &impact.PercentChange,
		TimePeriod:     *window,
	}

	narrative, err := s.gemini.GenerateNarrative(ctx, event, impact)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Narrative generation failed, using fallback")
		narrative = fallbackNarrative(event, impact)
	}
	analysis.Narrative = narrative

	return analysis, nil
}

// ComputeImpact derives the benchmark impact of an event from index points
// spanning the padded range. The pre-event value is the latest close at or
// before the window start.
func ComputeImpact(points []models.PricePoint, w models.EventWindow) (*models.MarketImpact, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no benchmark data for impact analysis", models.ErrMissingPriceData)
	}

	h := &models.PriceHistory{Points: points}
	h.SortPoints()

	preEvent, ok := h.CloseOnOrBefore(w.Start)
	if !ok || preEvent <= 0 {
		return nil, fmt.Errorf("%w: no benchmark price at or before %s", models.ErrMissingPriceData, w.Start)
	}

	// Trough and end value within the window itself
	inWindow := h.Slice(w.Start, w.End)
	if len(inWindow) == 0 {
		return nil, fmt.Errorf("%w: no benchmark data inside [%s, %s]", models.ErrMissingPriceData, w.Start, w.End)
	}

	lowest := inWindow[0]
	for _, p := range inWindow[1:] {
		if p.Close < lowest.Close {
			lowest = p
		}
	}
	last := inWindow[len(inWindow)-1]

	impact := &models.MarketImpact{
		PreEventValue: preEvent,
		LowestValue:   lowest.Close,
		LowestDate:    lowest.Date,
		CurrentValue:  last.Close,
		PercentChange: (last.Close - preEvent) / preEvent * 100,
	}

	// Recovery is measured from the trough across the full padded series,
	// so a post-window recovery still counts.
	series := make(models.ValueSeries, 0, len(h.Points))
	series = append(series, models.ValuePoint{Date: w.Start, Value: preEvent})
	for _, p := range h.Points {
		if p.Date.After(w.Start) {
			series = append(series, models.ValuePoint{Date: p.Date, Value: p.Close})
		}
	}
	if days := metrics.RecoveryDays(series); days != nil {
		impact.Recovered = true
		impact.RecoveryDays = days
	}

	return impact, nil
}

// recoveryStatus renders the impact's recovery state as a display string
func recoveryStatus(impact *models.MarketImpact) string {
	if impact.Recovered && impact.RecoveryDays != nil {
		return fmt.Sprintf("Market recovered after %d days", *impact.RecoveryDays)
	}
	return "Market has not yet recovered to pre-event levels"
}

// fallbackNarrative is used when the AI narrative cannot be generated
func fallbackNarrative(event string, impact *models.MarketImpact) string {
	return fmt.Sprintf(
		"During %s, the market fell from %.2f to a low of %.2f on %s, a decline of %.2f%%. %s.",
		event, impact.PreEventValue, impact.LowestValue, impact.LowestDate,
		(impact.PreEventValue-impact.LowestValue)/impact.PreEventValue*100,
		recoveryStatus(impact),
	)
}

// Ensure Service implements EventService
var _ interfaces.EventService = (*Service)(nil)
