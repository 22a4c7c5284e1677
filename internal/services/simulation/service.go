// Package simulation runs the three-scenario event simulation: how a
// portfolio would have fared through a historical market event if the
// investor held, sold at the start, or bought at the bottom.
package simulation

import (
	"context"
	"fmt"

	"github.com/bobmcallan/hindsight/internal/common"
	"github.com/bobmcallan/hindsight/internal/interfaces"
	"github.com/bobmcallan/hindsight/internal/models"
	"github.com/bobmcallan/hindsight/internal/services/event"
)

// Service implements the SimulationService interface
type Service struct {
	portfolios interfaces.PortfolioStore
	market     interfaces.MarketService
	events     interfaces.EventService
	gemini     interfaces.GeminiClient
	logger     *common.Logger
}

// NewService creates a new simulation service. The gemini client may be nil;
// advice then degrades to a static comparison.
func NewService(
	portfolios interfaces.PortfolioStore,
	market interfaces.MarketService,
	events interfaces.EventService,
	gemini interfaces.GeminiClient,
	logger *common.Logger,
) *Service {
	return &Service{
		portfolios: portfolios,
		market:     market,
		events:     events,
		gemini:     gemini,
		logger:     logger,
	}
}

// SimulateEvent resolves the event window, fetches per-asset history across
// the padded range, runs the three scenarios, and ranks them.
func (s *Service) SimulateEvent(ctx context.Context, portfolioID, eventText string) (*models.SimulationResult, error) {
	p, err := s.portfolios.Get(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if err := models.ValidateAssets(p.Assets); err != nil {
		return nil, err
	}

	window, err := s.events.ResolveWindow(ctx, eventText)
	if err != nil {
		return nil, err
	}

	padStart, padEnd := event.PaddedRange(*window)
	histories := make(map[string]*models.PriceHistory, len(p.Assets))
	for _, a := range p.Assets {
		h, err := s.market.GetAssetHistory(ctx, a.Symbol, padStart, padEnd)
		if err != nil {
			return nil, fmt.Errorf("failed to load history for %s: %w", a.Symbol, err)
		}
		histories[a.Symbol] = h
	}

	hold, err := BuildHoldSeries(p, histories, *window)
	if err != nil {
		return nil, err
	}

	results, err := RunScenarios(hold)
	if err != nil {
		return nil, err
	}

	best, err := SelectBest(results)
	if err != nil {
		return nil, err
	}

	assetPerformance := make(map[string]models.AssetPerformance, len(p.Assets))
	for _, a := range p.Assets {
		assetPerformance[a.Symbol] = models.AssetPerformance{
			Name:       a.Name,
			Allocation: a.Allocation,
			Prices:     histories[a.Symbol].Slice(window.Start, window.End),
		}
	}

	advice := models.Advice{BestScenario: best}
	if s.gemini != nil {
		text, err := s.gemini.GenerateAdvice(ctx, eventText, results)
		if err == nil {
			advice.Text = text
		} else {
			s.logger.Warn().Err(err).Msg("Advice generation failed, using fallback")
		}
	}
	if advice.Text == "" {
		advice.Text = fallbackAdvice(best, results)
	}

	s.logger.Info().
		Str("portfolio", p.ID).
		Str("event", eventText).
		Str("best", string(best)).
		Msg("Completed event simulation")

	return &models.SimulationResult{
		Event:            eventText,
		PortfolioID:      p.ID,
		PortfolioName:    p.Name,
		TimePeriod:       *window,
		Scenarios:        results,
		AssetPerformance: assetPerformance,
		Advice:           advice,
	}, nil
}

// Ensure Service implements SimulationService
var _ interfaces.SimulationService = (*Service)(nil)
