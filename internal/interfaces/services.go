package interfaces

import (
	"context"

	"github.com/bobmcallan/hindsight/internal/models"
)

// PortfolioService manages portfolio operations
type PortfolioService interface {
	// Create validates and persists a new portfolio
	Create(ctx context.Context, name string, assets []models.Asset, investmentAmount *float64) (*models.Portfolio, error)

	// Get retrieves a portfolio by ID
	Get(ctx context.Context, id string) (*models.Portfolio, error)

	// List returns all portfolios
	List(ctx context.Context) ([]*models.Portfolio, error)

	// Update replaces a portfolio's name, assets, and investment amount
	Update(ctx context.Context, id, name string, assets []models.Asset, investmentAmount *float64) (*models.Portfolio, error)

	// Delete removes a portfolio
	Delete(ctx context.Context, id string) error

	// Performance builds the portfolio's aggregate value series across a
	// period and summarizes it with dashboard metrics.
	Performance(ctx context.Context, id, period string) (models.ValueSeries, *models.PortfolioMetrics, error)
}

// MarketService handles market data operations
type MarketService interface {
	// GetIndexHistory returns benchmark index bars for a period or explicit range
	GetIndexHistory(ctx context.Context, period string, start, end models.Date) ([]models.PricePoint, error)

	// GetAssetHistory returns the price history for a symbol across [start, end],
	// serving from cache when the cached range covers the request.
	GetAssetHistory(ctx context.Context, symbol string, start, end models.Date) (*models.PriceHistory, error)

	// SearchAssets matches the static asset catalog by symbol or name substring
	SearchAssets(query string) []models.AssetInfo

	// RefreshCached re-fetches every cached symbol's history
	RefreshCached(ctx context.Context) error
}

// EventService resolves free-text event descriptions into validated windows
// and analyzes their market impact.
type EventService interface {
	// ResolveWindow classifies the event text and derives a validated
	// EventWindow with a calendar-midpoint decision date.
	ResolveWindow(ctx context.Context, event string) (*models.EventWindow, error)

	// AnalyzeEvent resolves the window and produces narrative, percent
	// change, and recovery status against the benchmark index.
	AnalyzeEvent(ctx context.Context, event string) (*models.EventAnalysis, error)
}

// SimulationService runs the three-scenario event simulation for a portfolio
type SimulationService interface {
	// SimulateEvent resolves the event window, fetches per-asset history
	// across the padded range, runs the three scenarios, and ranks them.
	SimulateEvent(ctx context.Context, portfolioID, event string) (*models.SimulationResult, error)
}
