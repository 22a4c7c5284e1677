package interfaces

import (
	"context"

	"github.com/bobmcallan/hindsight/internal/models"
)

// StorageManager coordinates the storage areas
type StorageManager interface {
	Portfolios() PortfolioStore
	MarketData() MarketDataStore
	Close() error
}

// PortfolioStore persists user-authored portfolios
type PortfolioStore interface {
	Get(ctx context.Context, id string) (*models.Portfolio, error)
	Save(ctx context.Context, p *models.Portfolio) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Portfolio, error)
}

// MarketDataStore caches fetched price histories
type MarketDataStore interface {
	GetHistory(ctx context.Context, symbol string) (*models.PriceHistory, error)
	SaveHistory(ctx context.Context, h *models.PriceHistory) error
	ListSymbols(ctx context.Context) ([]string, error)
}
