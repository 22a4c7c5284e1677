// Package portfolio manages portfolio persistence and performance reporting.
package portfolio

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/hindsight/internal/common"
	"github.com/bobmcallan/hindsight/internal/interfaces"
	"github.com/bobmcallan/hindsight/internal/metrics"
	"github.com/bobmcallan/hindsight/internal/models"
	"github.com/bobmcallan/hindsight/internal/services/market"
)

// Service implements the PortfolioService interface
type Service struct {
	store  interfaces.PortfolioStore
	market interfaces.MarketService
	logger *common.Logger
}

// NewService creates a new portfolio service
func NewService(store interfaces.PortfolioStore, market interfaces.MarketService, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		market: market,
		logger: logger,
	}
}

// Create validates and persists a new portfolio
func (s *Service) Create(ctx context.Context, name string, assets []models.Asset, investmentAmount *float64) (*models.Portfolio, error) {
	now := time.Now().UTC()
	p := &models.Portfolio{
		ID:               uuid.NewString(),
		Name:             name,
		Assets:           assets,
		InvestmentAmount: investmentAmount,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	s.logger.Info().Str("id", p.ID).Str("name", p.Name).Int("assets", len(p.Assets)).Msg("Created portfolio")
	return p, nil
}

// Get retrieves a portfolio by ID
func (s *Service) Get(ctx context.Context, id string) (*models.Portfolio, error) {
	return s.store.Get(ctx, id)
}

// List returns all portfolios sorted by creation time, oldest first
func (s *Service) List(ctx context.Context) ([]*models.Portfolio, error) {
	portfolios, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(portfolios, func(i, j int) bool {
		return portfolios[i].CreatedAt.Before(portfolios[j].CreatedAt)
	})
	return portfolios, nil
}

// Update replaces a portfolio's name, assets, and investment amount.
// CreatedAt is preserved; UpdatedAt is refreshed.
func (s *Service) Update(ctx context.Context, id, name string, assets []models.Asset, investmentAmount *float64) (*models.Portfolio, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	p := &models.Portfolio{
		ID:               existing.ID,
		Name:             name,
		Assets:           assets,
		InvestmentAmount: investmentAmount,
		CreatedAt:        existing.CreatedAt,
		UpdatedAt:        time.Now().UTC(),
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	s.logger.Info().Str("id", p.ID).Msg("Updated portfolio")
	return p, nil
}

// Delete removes a portfolio
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("id", id).Msg("Deleted portfolio")
	return nil
}

// Performance builds the portfolio's aggregate value series across a named
// period and summarizes it. Each asset contributes its allocation share of
// the investment amount, normalized to its price on the first covered day.
func (s *Service) Performance(ctx context.Context, id, period string) (models.ValueSeries, *models.PortfolioMetrics, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if period == "" {
		period = "1y"
	}
	start, end, err := market.PeriodRange(period)
	if err != nil {
		return nil, nil, err
	}

	histories := make(map[string]*models.PriceHistory, len(p.Assets))
	for _, a := range p.Assets {
		h, err := s.market.GetAssetHistory(ctx, a.Symbol, start, end)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load history for %s: %w", a.Symbol, err)
		}
		histories[a.Symbol] = h
	}

	series, err := BuildValueSeries(p, histories, start, end)
	if err != nil {
		return nil, nil, err
	}

	summary, err := metrics.Summarize(series)
	if err != nil {
		return nil, nil, err
	}

	return series, summary, nil
}

// BuildValueSeries computes the portfolio's dollar value on every trading
// date in [start, end]. The date axis is the sorted union of the assets'
// trading dates within the window; weekend and holiday gaps for individual
// assets are bridged with the latest prior close.
func BuildValueSeries(p *models.Portfolio, histories map[string]*models.PriceHistory, start, end models.Date) (models.ValueSeries, error) {
	dates := unionDates(histories, start, end)
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: no trading dates in [%s, %s]", models.ErrMissingPriceData, start, end)
	}

	investment := p.Investment()
	firstDate := dates[0]

	// Per-asset share count: allocation dollars divided by the asset's price
	// on the first covered date.
	shares := make(map[string]float64, len(p.Assets))
	for _, a := range p.Assets {
		h, ok := histories[a.Symbol]
		if !ok {
			return nil, fmt.Errorf("%w: no history for %s", models.ErrMissingPriceData, a.Symbol)
		}
		startClose, ok := h.CloseOnOrBefore(firstDate)
		if !ok || startClose <= 0 {
			return nil, fmt.Errorf("%w: no price for %s at or before %s", models.ErrMissingPriceData, a.Symbol, firstDate)
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

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
