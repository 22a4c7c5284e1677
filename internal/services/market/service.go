// Package market provides market data retrieval with a file-backed cache.
package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/bobmcallan/hindsight/internal/common"
	"github.com/bobmcallan/hindsight/internal/interfaces"
	"github.com/bobmcallan/hindsight/internal/models"
)

// Service implements the MarketService interface. Histories are served from
// the cache when the cached range covers the request; otherwise the full
// requested range is fetched and the cache replaced with the union range.
type Service struct {
	client         interfaces.MarketDataClient
	store          interfaces.MarketDataStore
	benchmarkIndex string
	logger         *common.Logger
}

// NewService creates a new market data service
func NewService(client interfaces.MarketDataClient, store interfaces.MarketDataStore, benchmarkIndex string, logger *common.Logger) *Service {
	return &Service{
		client:         client,
		store:          store,
		benchmarkIndex: benchmarkIndex,
		logger:         logger,
	}
}

// periodRanges maps a named period to its start offset from today.
var periodRanges = map[string]struct{ years, months int }{
	"1mo": {0, 1},
	"3mo": {0, 3},
	"6mo": {0, 6},
	"1y":  {1, 0},
	"2y":  {2, 0},
	"5y":  {5, 0},
	"10y": {10, 0},
}

// PeriodRange resolves a named period to a concrete [start, end] date range
// ending today. "ytd" starts at January 1; "max" starts in 1970.
func PeriodRange(period string) (models.Date, models.Date, error) {
	end := models.Today()

	switch period {
	case "ytd":
		return models.NewDate(end.Time().Year(), 1, 1), end, nil
	case "max":
		return models.NewDate(1970, 1, 1), end, nil
	default:
		if r, ok := periodRanges[period]; ok {
			return end.AddMonths(-(r.years*12 + r.months)), end, nil
		}
		return models.Date{}, models.Date{}, fmt.Errorf("%w: unknown period %q", models.ErrInvalidInput, period)
	}
}

// GetIndexHistory returns benchmark index bars for a period or explicit range.
// When start and end are set they take precedence over the period name.
func (s *Service) GetIndexHistory(ctx context.Context, period string, start, end models.Date) ([]models.PricePoint, error) {
	if start.IsZero() || end.IsZero() {
		if period == "" {
			period = "1y"
		}
		var err error
		start, end, err = PeriodRange(period)
		if err != nil {
			return nil, err
		}
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s before start %s", models.ErrInvalidInput, end, start)
	}

	h, err := s.GetAssetHistory(ctx, s.benchmarkIndex, start, end)
	if err != nil {
		return nil, err
	}
	return h.Slice(start, end), nil
}

// GetAssetHistory returns the price history for a symbol across [start, end],
// fetching from the provider on a cache miss or partial coverage.
func (s *Service) GetAssetHistory(ctx context.Context, symbol string, start, end models.Date) (*models.PriceHistory, error) {
	cached, err := s.store.GetHistory(ctx, symbol)
	if err == nil && cached.Covers(start, end) {
		s.logger.Debug().Str("symbol", symbol).Msg("Serving history from cache")
		return cached, nil
	}
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	// Widen the fetch to the union of the cached and requested ranges so the
	// cache never shrinks.
	fetchStart, fetchEnd := start, end
	if cached != nil {
		if !cached.RangeStart.IsZero() && cached.RangeStart.Before(fetchStart) {
			fetchStart = cached.RangeStart
		}
		if !cached.RangeEnd.IsZero() && cached.RangeEnd.After(fetchEnd) {
			fetchEnd = cached.RangeEnd
		}
	}

	points, err := s.client.GetDailyHistory(ctx, symbol, fetchStart, fetchEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no price data for %s in [%s, %s]", models.ErrMissingPriceData, symbol, fetchStart, fetchEnd)
	}

	h := &models.PriceHistory{
		Symbol:     symbol,
		Points:     points,
		RangeStart: fetchStart,
		RangeEnd:   fetchEnd,
	}
	h.SortPoints()

	if err := s.store.SaveHistory(ctx, h); err != nil {
		// Cache write failure is not fatal; the caller still gets the data
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache history")
	}

	return h, nil
}

// SearchAssets matches the static asset catalog by symbol or name substring
func (s *Service) SearchAssets(query string) []models.AssetInfo {
	return searchCatalog(query)
}

// RefreshCached re-fetches every cached symbol's history across its stored
// range. Individual failures are logged and skipped so one delisted symbol
// cannot stall the refresh.
func (s *Service) RefreshCached(ctx context.Context) error {
	symbols, err := s.store.ListSymbols(ctx)
	if err != nil {
		return fmt.Errorf("failed to list cached symbols: %w", err)
	}

	for _, key := range symbols {
		cached, err := s.store.GetHistory(ctx, key)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", key).Msg("Skipping unreadable cache entry")
			continue
		}

		end := models.Today()
		points, err := s.client.GetDailyHistory(ctx, cached.Symbol, cached.RangeStart, end)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", cached.Symbol).Msg("Failed to refresh history")
			continue
		}
		if len(points) == 0 {
			continue
		}

		h := &models.PriceHistory{
			Symbol:     cached.Symbol,
			Points:     points,
			RangeStart: cached.RangeStart,
			RangeEnd:   end,
		}
		h.SortPoints()

		if err := s.store.SaveHistory(ctx, h); err != nil {
			s.logger.Warn().Err(err).Str("symbol", cached.Symbol).Msg("Failed to save refreshed history")
			continue
		}
		s.logger.Info().Str("symbol", cached.Symbol).Int("points", len(points)).Msg("Refreshed cached history")
	}

	return nil
}

// Ensure Service implements MarketService
var _ interfaces.MarketService = (*Service)(nil)
